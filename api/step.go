package api

import "fmt"

// Step names a pipeline step for error reporting and events.
type Step int

const (
	StepGenerate Step = iota + 1
	StepCritique
	StepRefine
	StepCheck
)

func (s Step) String() string {
	switch s {
	case StepGenerate:
		return "generate"
	case StepCritique:
		return "critique"
	case StepRefine:
		return "refine"
	case StepCheck:
		return "check"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Step) UnmarshalText(text []byte) error {
	switch string(text) {
	case "generate":
		*s = StepGenerate
	case "critique":
		*s = StepCritique
	case "refine":
		*s = StepRefine
	case "check":
		*s = StepCheck
	default:
		return fmt.Errorf("unknown step %q", text)
	}
	return nil
}
