package sim

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// CloudletScheduler divides a VM's granted MIPS among the cloudlets bound to it
// and turns elapsed simulated time into executed length.
//
// mips is the total MIPS the host currently delivers to the VM and cores its
// virtual core count; both are passed on every call so the scheduler never
// holds a reference back to its VM.
type CloudletScheduler interface {
	Name() string
	// Submit accepts a cloudlet that has just reached the VM.
	Submit(c *Cloudlet, now float64)
	// Update advances bound cloudlets from the previous update to now and returns
	// those that completed, in ascending cloudlet ID.
	Update(now, mips float64, cores int) []*Cloudlet
	// NextCompletion estimates the earliest completion time at current rates,
	// or +Inf when nothing can progress.
	NextCompletion(now, mips float64, cores int) float64
	// Active returns the number of cloudlets submitted but not finished.
	Active() int
}

// TimeShared runs every bound cloudlet concurrently. The VM's MIPS is split
// in equal shares per requested core: perCore = mips / max(vmCores, sum of
// cloudlet cores), and each cloudlet progresses at perCore * its cores.
type TimeShared struct {
	running    []*Cloudlet
	lastUpdate float64
}

// NewTimeShared creates an empty time-shared scheduler.
func NewTimeShared() *TimeShared {
	return &TimeShared{}
}

func (ts *TimeShared) Name() string { return "time-shared" }

func (ts *TimeShared) Active() int { return len(ts.running) }

func (ts *TimeShared) Submit(c *Cloudlet, now float64) {
	if len(ts.running) == 0 {
		ts.lastUpdate = now
	}
	c.start(now)
	ts.running = append(ts.running, c)
}

func (ts *TimeShared) perCoreMips(mips float64, cores int) float64 {
	demand := 0
	for _, c := range ts.running {
		demand += c.Cores
	}
	return mips / float64(max(cores, demand))
}

func (ts *TimeShared) Update(now, mips float64, cores int) []*Cloudlet {
	dt := now - ts.lastUpdate
	ts.lastUpdate = now
	if len(ts.running) == 0 {
		return nil
	}
	perCore := ts.perCoreMips(mips, cores)
	if dt > 0 {
		for _, c := range ts.running {
			c.advance(perCore * float64(c.Cores) * dt)
		}
	}

	var finished []*Cloudlet
	remaining := ts.running[:0]
	for _, c := range ts.running {
		if c.done(now, perCore*float64(c.Cores)) {
			c.finish(now)
			finished = append(finished, c)
		} else {
			remaining = append(remaining, c)
		}
	}
	clear(ts.running[len(remaining):])
	ts.running = remaining
	sortByID(finished)
	return finished
}

func (ts *TimeShared) NextCompletion(now, mips float64, cores int) float64 {
	if len(ts.running) == 0 {
		return math.Inf(1)
	}
	perCore := ts.perCoreMips(mips, cores)
	next := math.Inf(1)
	for _, c := range ts.running {
		rate := perCore * float64(c.Cores)
		if rate <= 0 {
			continue
		}
		next = min(next, now+c.Remaining()/rate)
	}
	return next
}

// SpaceShared runs bound cloudlets one at a time in FIFO order. The head
// consumes the VM's full MIPS; the rest wait Submitted with their remaining
// length unchanged.
type SpaceShared struct {
	queue      []*Cloudlet
	lastUpdate float64
}

// NewSpaceShared creates an empty space-shared scheduler.
func NewSpaceShared() *SpaceShared {
	return &SpaceShared{}
}

func (ss *SpaceShared) Name() string { return "space-shared" }

func (ss *SpaceShared) Active() int { return len(ss.queue) }

func (ss *SpaceShared) Submit(c *Cloudlet, now float64) {
	if len(ss.queue) == 0 {
		ss.lastUpdate = now
		c.start(now)
	}
	ss.queue = append(ss.queue, c)
}

func (ss *SpaceShared) Update(now, mips float64, _ int) []*Cloudlet {
	dt := now - ss.lastUpdate
	ss.lastUpdate = now
	if len(ss.queue) == 0 {
		return nil
	}
	if dt > 0 {
		ss.queue[0].advance(mips * dt)
	}

	var finished []*Cloudlet
	for len(ss.queue) > 0 && ss.queue[0].done(now, mips) {
		head := ss.queue[0]
		head.finish(now)
		finished = append(finished, head)
		ss.queue[0] = nil
		ss.queue = ss.queue[1:]
		if len(ss.queue) > 0 {
			ss.queue[0].start(now)
		}
	}
	sortByID(finished)
	return finished
}

func (ss *SpaceShared) NextCompletion(now, mips float64, _ int) float64 {
	if len(ss.queue) == 0 || mips <= 0 {
		return math.Inf(1)
	}
	return now + ss.queue[0].Remaining()/mips
}

// Waiting returns the cloudlets queued behind the running head.
func (ss *SpaceShared) Waiting() []*Cloudlet {
	if len(ss.queue) <= 1 {
		return nil
	}
	return slices.Clone(ss.queue[1:])
}

func sortByID(cs []*Cloudlet) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
}

// ValidCloudletSchedulers is the set of recognized cloudlet scheduler names.
var ValidCloudletSchedulers = map[string]bool{"": true, "time-shared": true, "space-shared": true}

// IsValidCloudletScheduler returns true if name is a recognized cloudlet scheduler.
func IsValidCloudletScheduler(name string) bool {
	return ValidCloudletSchedulers[name]
}

// NewCloudletScheduler creates a CloudletScheduler by name.
// Empty string defaults to time-shared. Panics on unrecognized names.
func NewCloudletScheduler(name string) CloudletScheduler {
	if !IsValidCloudletScheduler(name) {
		panic(fmt.Sprintf("unknown cloudlet scheduler %q", name))
	}
	switch name {
	case "", "time-shared":
		return NewTimeShared()
	case "space-shared":
		return NewSpaceShared()
	default:
		panic(fmt.Sprintf("unhandled cloudlet scheduler %q", name))
	}
}
