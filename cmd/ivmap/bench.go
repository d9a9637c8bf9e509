package main

import (
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aglyzov/go-ivmap/ivmap/metered"
	"github.com/aglyzov/go-ivmap/profiler"
)

type benchOp struct {
	begin, end int64
	val        string
}

func (a *app) benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a random assign/lookup workload and print its metrics",
		Args:  cobra.NoArgs,
		RunE:  a.runBench,
	}

	cmd.Flags().Int("ops", 100_000, wrap("number of assigns (and as many lookups)"))
	cmd.Flags().Int("keys", 1_000_000, wrap("size of the key space ranges start in"))
	cmd.Flags().Int64("seed", 42, wrap("seed of the random workload"))
	cmd.Flags().String("table", tableBTree, wrap("transition table (btree, veb)"))

	return cmd
}

func (a *app) runBench(cmd *cobra.Command, _ []string) error {
	var (
		out  = cmd.OutOrStdout()
		num  = a.conf.GetInt("ops")
		keys = a.conf.GetInt("keys")
	)

	if num < 1 || keys < 1 {
		return fmt.Errorf("ops and keys must be positive (got %d and %d)", num, keys)
	}

	reg := prometheus.NewRegistry()

	metrics, err := metered.NewMetrics(reg, "ivmap")
	if err != nil {
		return err
	}

	inner, err := newMap(a.conf.GetString("table"), "")
	if err != nil {
		return err
	}

	m := metered.Wrap(inner, metrics)

	prof := profiler.New(profiler.TableHandler(out))
	prof.AddProcess(int32(os.Getpid()), "ivmap")

	end := prof.Track("bench: generate")
	ops := genBenchOps(gofakeit.New(a.conf.GetInt64("seed")), num, keys)
	end()

	rejected := 0

	end = prof.Track("bench: assign")
	for _, op := range ops {
		if err := m.Assign(op.begin, op.end, op.val); err != nil {
			rejected++
		}
	}
	end()

	end = prof.Track("bench: lookup")
	for _, op := range ops {
		_ = m.Lookup(op.begin)
	}
	end()

	prof.Shutdown()

	a.log.Info("bench done", "ops", num, "rejected", rejected, "transitions", m.Len())

	fmt.Fprintln(out)

	return printMetrics(out, reg)
}

// genBenchOps returns num random assigns starting within [0, keys). Values are
// drawn from a small palette so that adjacent duplicates do occur.
func genBenchOps(faker *gofakeit.Faker, num, keys int) []benchOp {
	ops := make([]benchOp, num)

	for i := range ops {
		begin := int64(faker.Number(0, keys-1))
		ops[i] = benchOp{
			begin: begin,
			end:   begin + int64(faker.Number(1, 100)),
			val:   faker.SafeColor(),
		}
	}

	return ops
}
