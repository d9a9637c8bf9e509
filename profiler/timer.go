package profiler

import "time"

// Timer measures the time passed since it was created or reset.
type Timer struct {
	now   func() time.Time
	start time.Time
}

func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	return &Timer{now: now, start: now()}
}

func (t *Timer) Reset() {
	t.start = t.now()
}

func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// StopWatch accumulates time across pauses.
//
// A zero StopWatch is stopped. Start (re)starts the current lap, Pause adds the lap
// to the total, Resume starts a new lap and Stop drops everything.
type StopWatch struct {
	now     func() time.Time
	started bool
	paused  bool
	last    time.Time
	sum     time.Duration
}

func NewStopWatch(start bool) *StopWatch {
	return newStopWatch(time.Now, start)
}

func newStopWatch(now func() time.Time, start bool) *StopWatch {
	sw := &StopWatch{now: now}
	if start {
		sw.Start()
	}
	return sw
}

func (sw *StopWatch) Start() {
	sw.last = sw.clock()
	sw.started = true
}

func (sw *StopWatch) Pause() {
	if !sw.started || sw.paused {
		return
	}
	sw.sum += sw.clock().Sub(sw.last)
	sw.paused = true
}

func (sw *StopWatch) Resume() {
	if sw.started && !sw.paused {
		return
	}
	sw.Start()
	sw.paused = false
}

func (sw *StopWatch) Stop() {
	if !sw.started {
		return
	}
	sw.started = false
	sw.paused = false
	sw.sum = 0
}

// Elapsed returns the accumulated time including the running lap.
func (sw *StopWatch) Elapsed() time.Duration {
	if sw.started && !sw.paused {
		now := sw.clock()
		sw.sum += now.Sub(sw.last)
		sw.last = now
	}
	return sw.sum
}

func (sw *StopWatch) Paused() bool {
	return sw.paused
}

func (sw *StopWatch) clock() time.Time {
	if sw.now == nil {
		return time.Now()
	}
	return sw.now()
}
