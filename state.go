package jitload

// state is a step of one load cycle. It only appears in log fields.
type state int

const (
	stateSized state = iota
	stateAllocated
	statePopulated
	stateExecuting
	stateReleased
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateSized:
		return "sized"
	case stateAllocated:
		return "allocated"
	case statePopulated:
		return "populated"
	case stateExecuting:
		return "executing"
	case stateReleased:
		return "released"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}
