package contact

// State is the phase of the contact form.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Submitting:
		return "Submitting"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Status is the state shown to the visitor. Message is set for Succeeded
// and Failed only.
type Status struct {
	State   State
	Message string
}

// Terminal reports whether the status is a completed attempt.
func (s Status) Terminal() bool {
	return s.State == Succeeded || s.State == Failed
}

// Submit control labels.
const (
	SubmitLabel     = "Send Message"
	SubmittingLabel = "Sending..."
)
