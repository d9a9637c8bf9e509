package profiler

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LogHandler reports measurements as structured log records. A nil logger means
// slog.Default().
func LogHandler(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(segment string, value float64, unit Unit) {
		if unit == Comment {
			logger.Info(segment)
			return
		}
		logger.Info("profile", "segment", segment, "value", value, "unit", unit.String())
	}
}

// TableHandler writes measurements as fixed-width rows preceded by a header. The
// first column is the time in microseconds since the previous row.
func TableHandler(w io.Writer) Handler {
	return tableHandler(w, time.Now)
}

func tableHandler(w io.Writer, now func() time.Time) Handler {
	const format = "%16v%64v%16v%16v\n"

	var (
		mu     sync.Mutex
		header bool
		timer  = newTimer(now)
	)

	return func(segment string, value float64, unit Unit) {
		mu.Lock()
		defer mu.Unlock()

		if !header {
			header = true
			fmt.Fprintf(w, format, "Time offset (us)", "Segment", "Value", "Unit")
		}

		if segment == "" {
			return
		}

		fmt.Fprintf(w, format, timer.Elapsed().Microseconds(), segment, value, unit)
		timer.Reset()
	}
}
