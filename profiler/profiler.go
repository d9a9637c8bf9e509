// Package profiler times named code segments and samples the memory of tracked
// processes, reporting every measurement to a Handler.
//
// Typical use:
//
//	prof := profiler.New(profiler.TableHandler(os.Stdout))
//	prof.AddProcess(int32(os.Getpid()), "ivmap")
//	defer prof.Shutdown()
//
//	func work() {
//		defer prof.Track("work")()
//		...
//	}
//
// Ending a segment reports its duration followed by the memory of every tracked
// process. Memory is reported in whole megabytes under the "<name>:<pid> (current)"
// and "<name>:<pid> (peak)" labels; the peak is the maximum seen so far.
package profiler

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// Handler receives measurements. It is called with the profiler lock held, so it
// must not call back into the profiler.
type Handler func(segment string, value float64, unit Unit)

type proc struct {
	name    string
	current float64 // MB
	peak    float64 // MB
}

type Profiler struct {
	mu        sync.Mutex
	out       Handler
	running   map[string]*Timer
	processes map[int32]*proc

	now         func() time.Time
	readMemory  MemoryReader
	totalMemory func() uint64
}

// New returns a Profiler reporting to out.
func New(out Handler) *Profiler {
	return &Profiler{
		out:         out,
		running:     map[string]*Timer{},
		processes:   map[int32]*proc{},
		now:         time.Now,
		readMemory:  ReadProcessMemory,
		totalMemory: TotalMemory,
	}
}

// Start begins timing the segment. A segment already running keeps its start time.
func (p *Profiler) Start(segment string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.comment("Starting " + segment)

	if _, ok := p.running[segment]; !ok {
		p.running[segment] = newTimer(p.now)
	}
}

// End reports the duration of a running segment and then collects the memory usage.
// Unknown segments are ignored.
func (p *Profiler) End(segment string) {
	p.mu.Lock()

	timer, ok := p.running[segment]
	if !ok {
		p.mu.Unlock()
		return
	}

	p.out(segment, milliseconds(timer.Elapsed()), Milliseconds)
	delete(p.running, segment)

	p.mu.Unlock()

	p.CollectMemoryUsage()
}

// Track starts the segment and returns the function ending it. It is safe to call
// on a nil Profiler.
func (p *Profiler) Track(segment string) (end func()) {
	if p == nil {
		return func() {}
	}

	p.Start(segment)

	return func() { p.End(segment) }
}

// AddProcess starts tracking the memory of a process. A known pid is left as is.
func (p *Profiler) AddProcess(pid int32, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.processes[pid]; !ok {
		p.processes[pid] = &proc{name: name}
	}
}

// RemoveProcesses stops tracking all processes with the name, reporting their last
// known memory usage.
func (p *Profiler) RemoveProcesses(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pid := range slices.Sorted(maps.Keys(p.processes)) {
		if pr := p.processes[pid]; pr.name == name {
			p.outputMemory(pid, pr.name, pr.current, pr.peak)
			delete(p.processes, pid)
		}
	}
}

// CollectMemoryUsage samples and reports the memory of every tracked process. A
// process that can't be read is reported with zeros and keeps its previous figures.
func (p *Profiler) CollectMemoryUsage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pid := range slices.Sorted(maps.Keys(p.processes)) {
		pr := p.processes[pid]

		usage, err := p.readMemory(pid)
		if err != nil {
			p.outputMemory(pid, pr.name, 0, 0)
			continue
		}

		pr.current = megabytes(usage.Current)
		pr.peak = max(pr.peak, megabytes(usage.Peak), pr.current)

		p.outputMemory(pid, pr.name, pr.current, pr.peak)
	}
}

// Comment passes the text to the handler as a "# " prefixed segment.
func (p *Profiler) Comment(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.comment(text)
}

// Shutdown reports the segments still running (and forgets them), the last known
// memory of every tracked process and the total system memory.
func (p *Profiler) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, segment := range slices.Sorted(maps.Keys(p.running)) {
		p.out(segment, milliseconds(p.running[segment].Elapsed()), Milliseconds)
	}
	clear(p.running)

	for _, pid := range slices.Sorted(maps.Keys(p.processes)) {
		pr := p.processes[pid]
		p.outputMemory(pid, pr.name, pr.current, pr.peak)
	}

	p.out("system memory (total)", megabytes(p.totalMemory()), Megabytes)
}

func (p *Profiler) comment(text string) {
	p.out("# "+text, 0, Comment)
}

func (p *Profiler) outputMemory(pid int32, name string, current, peak float64) {
	p.out(fmt.Sprintf("%s:%d (current)", name, pid), current, Megabytes)
	p.out(fmt.Sprintf("%s:%d (peak)", name, pid), peak, Megabytes)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
