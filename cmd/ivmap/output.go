package main

import (
	"fmt"
	"io"
	"strings"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aglyzov/go-ivmap/ivmap"
	"github.com/aglyzov/go-ivmap/veb/table"
)

const (
	tableBTree = "btree"
	tableVEB   = "veb"

	formatLines = "lines"
	formatSpans = "spans"
)

// newMap returns an empty map stored in the table of the kind.
func newMap(kind, baseline string) (*ivmap.Map[int64, string], error) {
	switch kind {
	case tableBTree:
		return ivmap.New[int64, string](baseline), nil
	case tableVEB:
		return ivmap.NewWithTable[int64, string](baseline, table.New[int64, string]()), nil
	default:
		return nil, fmt.Errorf("unknown table %q (%s, %s)", kind, tableBTree, tableVEB)
	}
}

// printLines writes the value of every key within [from, to) on its own line.
func printLines(w io.Writer, m *ivmap.Map[int64, string], from, to int64) error {
	for key := from; key < to; key++ {
		if _, err := fmt.Fprintf(w, "[%d] -> %s\n", key, m.Lookup(key)); err != nil {
			return err
		}
	}
	return nil
}

// printSpans writes one line per run of equal values.
func printSpans(w io.Writer, m *ivmap.Map[int64, string]) error {
	spans := m.Spans()

	for i, span := range spans {
		begin, end := "-inf", "+inf"
		if !span.Open {
			begin = fmt.Sprint(span.Begin)
		}
		if i+1 < len(spans) {
			end = fmt.Sprint(spans[i+1].Begin)
		}
		if _, err := fmt.Fprintf(w, "[%s, %s) -> %s\n", begin, end, span.Val); err != nil {
			return err
		}
	}

	return nil
}

func printMap(w io.Writer, m *ivmap.Map[int64, string], format string, from, to int64) error {
	switch format {
	case formatLines:
		return printLines(w, m, from, to)
	case formatSpans:
		return printSpans(w, m)
	default:
		return fmt.Errorf("unknown format %q (%s, %s)", format, formatLines, formatSpans)
	}
}

// printMetrics writes a line per gathered series: counters and gauges with their
// value, histograms with the sample count and mean.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName() + labels(metric.GetLabel())

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %g\n", name, metric.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %g\n", name, metric.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				mean := 0.0
				if h.GetSampleCount() > 0 {
					mean = h.GetSampleSum() / float64(h.GetSampleCount())
				}
				fmt.Fprintf(w, "%s count=%d mean=%.3gs\n", name, h.GetSampleCount(), mean)
			}
		}
	}

	return nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}

	var buf strings.Builder

	buf.WriteByte('{')
	for i, pair := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%s=%q", pair.GetName(), pair.GetValue())
	}
	buf.WriteByte('}')

	return buf.String()
}
