package state

// RenderStatus is the lifecycle status of a render job.
type RenderStatus string

const (
	RenderQueued     RenderStatus = "queued"
	RenderProcessing RenderStatus = "processing"
	RenderSucceeded  RenderStatus = "succeeded"
	RenderFailed     RenderStatus = "failed"
	RenderCanceled   RenderStatus = "canceled"
)

func (s RenderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted.
func (s RenderStatus) IsTerminal() bool {
	switch s {
	case RenderSucceeded, RenderFailed, RenderCanceled:
		return true
	}
	return false
}

var AllRenderStatuses = []RenderStatus{
	RenderQueued,
	RenderProcessing,
	RenderSucceeded,
	RenderFailed,
	RenderCanceled,
}

// ScheduleStatus is the lifecycle status of a publish schedule entry.
// A failed entry is retry-eligible: an operator may flip it back to
// scheduled, this subsystem never does.
type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleRunning   ScheduleStatus = "running"
	ScheduleDone      ScheduleStatus = "done"
	ScheduleFailed    ScheduleStatus = "failed"
)

func (s ScheduleStatus) String() string {
	return string(s)
}

func (s ScheduleStatus) IsTerminal() bool {
	return s == ScheduleDone || s == ScheduleFailed
}

var AllScheduleStatuses = []ScheduleStatus{
	ScheduleScheduled,
	ScheduleRunning,
	ScheduleDone,
	ScheduleFailed,
}

type RenderTransition struct {
	From RenderStatus
	To   RenderStatus
}

var validRenderTransitions = []RenderTransition{
	{From: RenderQueued, To: RenderProcessing},
	{From: RenderQueued, To: RenderCanceled},
	{From: RenderQueued, To: RenderSucceeded},
	{From: RenderQueued, To: RenderFailed},
	{From: RenderProcessing, To: RenderSucceeded},
	{From: RenderProcessing, To: RenderFailed},
	{From: RenderProcessing, To: RenderCanceled},
}

// IsValidRenderTransition reports whether a render job may move from one
// status to another. Unknown statuses are never valid sources or targets;
// consumers must treat them defensively rather than assume exhaustiveness.
func IsValidRenderTransition(from, to RenderStatus) bool {
	for _, t := range validRenderTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

type ScheduleTransition struct {
	From ScheduleStatus
	To   ScheduleStatus
}

var validScheduleTransitions = []ScheduleTransition{
	{From: ScheduleScheduled, To: ScheduleRunning},
	{From: ScheduleRunning, To: ScheduleDone},
	{From: ScheduleRunning, To: ScheduleFailed},
	// Recovery of entries stranded running by an abandoned pass.
	{From: ScheduleRunning, To: ScheduleScheduled},
	// Operator-side requeue of a failed entry.
	{From: ScheduleFailed, To: ScheduleScheduled},
}

func IsValidScheduleTransition(from, to ScheduleStatus) bool {
	for _, t := range validScheduleTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
