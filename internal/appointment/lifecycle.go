package appointment

import "fmt"

// transitions lists the only forward edges. Check-in is mandatory before Done.
var transitions = map[Status]Status{
	StatusScheduled: StatusCheckedIn,
	StatusCheckedIn: StatusDone,
}

// Transition validates a status change.
func Transition(from, to Status) error {
	if next, ok := transitions[from]; ok && next == to {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func IsTerminal(s Status) bool {
	_, ok := transitions[s]
	return !ok
}

// CanEdit reports whether time, patient or notes may still change.
func CanEdit(s Status) bool { return s != StatusDone }

// CanDelete is unconditional; deletion is irreversible.
func CanDelete(Status) bool { return true }

// Action is what the visit button does for an appointment.
type Action int

const (
	ActionNone Action = iota
	ActionIntake
	ActionCheckIn
	ActionResume
)

func (a Action) String() string {
	switch a {
	case ActionIntake:
		return "intake"
	case ActionCheckIn:
		return "check_in"
	case ActionResume:
		return "resume"
	default:
		return "none"
	}
}

// StartAction picks the Start/Resume behaviour. New patients are routed
// through intake before check-in commits.
func StartAction(a Appointment) Action {
	switch a.Status {
	case StatusScheduled:
		if a.Patient.IsNew {
			return ActionIntake
		}
		return ActionCheckIn
	case StatusCheckedIn:
		return ActionResume
	default:
		return ActionNone
	}
}

// ButtonLabel is the visit button caption; empty means no button.
func ButtonLabel(s Status) string {
	switch s {
	case StatusScheduled:
		return "Start"
	case StatusCheckedIn:
		return "Resume"
	default:
		return ""
	}
}
