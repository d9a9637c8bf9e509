package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aglyzov/go-ivmap/ivmap"
)

// maxDatasetSize bounds the dataset files read by the load command.
const maxDatasetSize = 1 << 20

// dataset is the YAML layout read by the load command.
type dataset struct {
	Baseline string `yaml:"baseline"`
	Ranges   []struct {
		Begin int64  `yaml:"begin"`
		End   int64  `yaml:"end"`
		Value string `yaml:"value"`
	} `yaml:"ranges"`
	Pairs []struct {
		Key   int64  `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"pairs"`
}

func (a *app) loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Build a map out of a YAML dataset and print it",
		Long: `Build a map out of a YAML dataset and print it.

The dataset holds the baseline, ranges assigned first and pairs assigned
afterwards as unit ranges:

  baseline: X
  ranges:
    - {begin: 1, end: 3, value: B}
  pairs:
    - {key: 44, value: F}`,
		Args: cobra.ExactArgs(1),
		RunE: a.runLoad,
	}

	cmd.Flags().Int64("from", -5, wrap("first key to print in the lines format"))
	cmd.Flags().Int64("to", 100, wrap("key to stop printing at (exclusive)"))
	cmd.Flags().String("format", formatLines, wrap("output format (lines, spans)"))
	cmd.Flags().String("table", tableBTree, wrap("transition table (btree, veb)"))

	return cmd
}

func (a *app) runLoad(cmd *cobra.Command, args []string) error {
	data, err := readDataset(args[0])
	if err != nil {
		return err
	}

	m, err := newMap(a.conf.GetString("table"), data.Baseline)
	if err != nil {
		return err
	}

	for i, r := range data.Ranges {
		if err := m.Assign(r.Begin, r.End, r.Value); err != nil {
			return fmt.Errorf("range #%d: %w", i, err)
		}
	}

	pairs := make([]ivmap.Pair[int64, string], len(data.Pairs))
	for i, p := range data.Pairs {
		pairs[i] = ivmap.Pair[int64, string]{Key: p.Key, Val: p.Value}
	}

	if err := ivmap.Load[int64, string](m, pairs...); err != nil {
		return err
	}

	a.log.Info("dataset loaded",
		"file", args[0],
		"ranges", len(data.Ranges),
		"pairs", len(data.Pairs),
		"transitions", m.Len(),
	)

	return printMap(cmd.OutOrStdout(), m, a.conf.GetString("format"), a.conf.GetInt64("from"), a.conf.GetInt64("to"))
}

func readDataset(path string) (*dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxDatasetSize+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxDatasetSize {
		return nil, fmt.Errorf("dataset %s exceeds %d bytes", path, maxDatasetSize)
	}

	var data dataset
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	return &data, nil
}
