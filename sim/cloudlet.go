// Defines the Cloudlet struct that models one unit of simulated work.
// Tracks binding, lifecycle status, executed length and start/finish times.

package sim

import (
	"fmt"
	"math"
)

// CloudletStatus represents the lifecycle state of a cloudlet.
// Statuses only move forward: Created -> Submitted -> InExecution -> Success | Failed.
type CloudletStatus string

const (
	StatusCreated     CloudletStatus = "CREATED"
	StatusSubmitted   CloudletStatus = "SUBMITTED"
	StatusInExecution CloudletStatus = "INEXEC"
	StatusSuccess     CloudletStatus = "SUCCESS"
	StatusFailed      CloudletStatus = "FAILED"
)

var statusRank = map[CloudletStatus]int{
	StatusCreated:     0,
	StatusSubmitted:   1,
	StatusInExecution: 2,
	StatusSuccess:     3,
	StatusFailed:      3,
}

// NoDeadline marks a cloudlet without a deadline.
var NoDeadline = math.Inf(1)

// completionEpsilon is the remaining length (in MI) below which a cloudlet counts as done.
const completionEpsilon = 1e-6

// Unbound is the VmID of a cloudlet that no placement has claimed yet.
const Unbound = -1

// Cloudlet is a unit of work measured in million instructions (MI).
type Cloudlet struct {
	ID          int
	Length      int64   // total work in MI
	Cores       int     // cores the cloudlet asks of its VM
	Deadline    float64 // absolute sim time; NoDeadline when unconstrained
	ArrivalTime float64 // earliest time the broker may submit it

	VmID           int
	Status         CloudletStatus
	SubmissionTime float64 // time it reached its VM
	ExecStartTime  float64
	FinishTime     float64
	FailureReason  string

	executed float64 // MI completed so far
}

// NewCloudlet creates an unbound, unconstrained cloudlet arriving at time 0.
// Panics on a negative length or non-positive core count.
func NewCloudlet(id int, length int64, cores int) *Cloudlet {
	if length < 0 || cores <= 0 {
		panic(fmt.Sprintf("NewCloudlet: cloudlet %d needs length >= 0 and cores > 0, got %d/%d", id, length, cores))
	}
	return &Cloudlet{
		ID:       id,
		Length:   length,
		Cores:    cores,
		Deadline: NoDeadline,
		VmID:     Unbound,
		Status:   StatusCreated,
	}
}

// WithDeadline sets an absolute deadline and returns the cloudlet for chaining.
func (c *Cloudlet) WithDeadline(deadline float64) *Cloudlet {
	c.Deadline = deadline
	return c
}

// HasDeadline reports whether the cloudlet is deadline-constrained.
func (c *Cloudlet) HasDeadline() bool {
	return !math.IsInf(c.Deadline, 1)
}

// ExecutedLength returns the MI completed so far.
func (c *Cloudlet) ExecutedLength() float64 {
	return c.executed
}

// Remaining returns the MI still to execute.
func (c *Cloudlet) Remaining() float64 {
	return max(0, float64(c.Length)-c.executed)
}

// IsTerminal reports whether the cloudlet reached Success or Failed.
func (c *Cloudlet) IsTerminal() bool {
	return c.Status == StatusSuccess || c.Status == StatusFailed
}

// BindingLocked reports whether the VM binding can no longer change.
func (c *Cloudlet) BindingLocked() bool {
	return statusRank[c.Status] >= statusRank[StatusInExecution]
}

// ActualCPUTime returns FinishTime - ExecStartTime for successful cloudlets, else 0.
func (c *Cloudlet) ActualCPUTime() float64 {
	if c.Status != StatusSuccess {
		return 0
	}
	return c.FinishTime - c.ExecStartTime
}

// DeadlineMet reports whether a successful cloudlet finished by its deadline.
// Unconstrained cloudlets always meet it; failed ones never do.
func (c *Cloudlet) DeadlineMet() bool {
	if c.Status != StatusSuccess {
		return false
	}
	return c.FinishTime <= c.Deadline
}

func (c *Cloudlet) setStatus(to CloudletStatus) {
	if statusRank[to] <= statusRank[c.Status] {
		panic(fmt.Sprintf("cloudlet %d: illegal status transition %s -> %s", c.ID, c.Status, to))
	}
	c.Status = to
}

func (c *Cloudlet) submit(now float64) {
	c.setStatus(StatusSubmitted)
	c.SubmissionTime = now
}

func (c *Cloudlet) start(now float64) {
	c.setStatus(StatusInExecution)
	c.ExecStartTime = now
}

func (c *Cloudlet) advance(mi float64) {
	c.executed = min(float64(c.Length), c.executed+mi)
}

func (c *Cloudlet) finish(now float64) {
	c.executed = float64(c.Length)
	c.setStatus(StatusSuccess)
	c.FinishTime = now
}

func (c *Cloudlet) fail(now float64, reason string) {
	c.setStatus(StatusFailed)
	c.FinishTime = now
	c.FailureReason = reason
}

// done reports whether the cloudlet has no representable work left at the given rate.
// The second clause stops the clock from stalling when remaining/rate underflows now.
func (c *Cloudlet) done(now, rate float64) bool {
	rem := c.Remaining()
	if rem <= completionEpsilon {
		return true
	}
	return rate > 0 && now+rem/rate <= now
}

// This method returns a human-readable string representation of a Cloudlet.
func (c *Cloudlet) String() string {
	return fmt.Sprintf("Cloudlet: (ID: %d, Length: %d, VM: %d, Status: %s, Start: %.3f, Finish: %.3f)",
		c.ID, c.Length, c.VmID, c.Status, c.ExecStartTime, c.FinishTime)
}
