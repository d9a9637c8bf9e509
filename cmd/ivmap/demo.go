package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aglyzov/go-ivmap/ivmap"
	"github.com/aglyzov/go-ivmap/profiler"
)

// demoPairs are loaded as unit ranges on top of the "X" baseline.
var demoPairs = []ivmap.Pair[int64, string]{
	{Key: 1, Val: "A"},
	{Key: 2, Val: "B"},
	{Key: 5, Val: "A"},
	{Key: 7, Val: "B"},
	{Key: 44, Val: "F"},
}

func (a *app) demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a small example map and print it key by key",
		Args:  cobra.NoArgs,
		RunE:  a.runDemo,
	}

	cmd.Flags().Int64("from", -5, wrap("first key to print"))
	cmd.Flags().Int64("to", 100, wrap("key to stop printing at (exclusive)"))
	cmd.Flags().String("table", tableBTree, wrap("transition table (btree, veb)"))

	return cmd
}

func (a *app) runDemo(cmd *cobra.Command, _ []string) error {
	prof := profiler.New(profiler.LogHandler(a.log))
	prof.AddProcess(int32(os.Getpid()), "ivmap")
	defer prof.Shutdown()

	m, err := newMap(a.conf.GetString("table"), "X")
	if err != nil {
		return err
	}

	end := prof.Track("demo: load")
	err = ivmap.Load[int64, string](m, demoPairs...)
	end()

	if err != nil {
		return err
	}

	a.log.Debug("demo map built", "map", m.String())

	defer prof.Track("demo: print")()

	return printLines(cmd.OutOrStdout(), m, a.conf.GetInt64("from"), a.conf.GetInt64("to"))
}
