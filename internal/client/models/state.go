package models

import "fmt"

// Phase is the top-level lifecycle state of one import.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseInProgress
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Step is a remote-processing stage. The numeric order is the display order
// and steps only ever move forward.
type Step int

const (
	StepNone Step = iota
	StepFetching
	StepFetchingTranscript
	StepParsing
	StepExtracting
	StepSaving
)

func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepFetching:
		return "fetching"
	case StepFetchingTranscript:
		return "fetching_transcript"
	case StepParsing:
		return "parsing"
	case StepExtracting:
		return "extracting"
	case StepSaving:
		return "saving"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Label is the progress text displayed for the step.
func (s Step) Label() string {
	switch s {
	case StepFetching:
		return "Fetching content"
	case StepFetchingTranscript:
		return "Fetching video transcript"
	case StepParsing:
		return "Reading recipe"
	case StepExtracting:
		return "Extracting ingredients and steps"
	case StepSaving:
		return "Saving recipe"
	default:
		return ""
	}
}

// ProgressFunc receives step updates from a running import. It may be called
// from any goroutine.
type ProgressFunc func(step Step)

// ErrorReason lets the UI route an Error state, e.g. to a purchase prompt.
type ErrorReason string

const (
	ReasonNetwork            ErrorReason = "network"
	ReasonContent            ErrorReason = "content"
	ReasonInsufficientTokens ErrorReason = "insufficient_tokens"
	ReasonUnauthorized       ErrorReason = "unauthorized"
	ReasonCanceled           ErrorReason = "canceled"
	ReasonUnknown            ErrorReason = "unknown"
)

// ImportState is a plain value: Step is set only in PhaseInProgress, Result
// only in PhaseSuccess, Message and Reason only in PhaseError.
type ImportState struct {
	Phase   Phase
	Step    Step
	Result  *ImportSummary
	Message string
	Reason  ErrorReason
}

// Busy reports whether an import is running and submission must be blocked.
func (s ImportState) Busy() bool {
	return s.Phase == PhaseValidating || s.Phase == PhaseInProgress
}

func (s ImportState) String() string {
	switch s.Phase {
	case PhaseInProgress:
		return fmt.Sprintf("%s(%s)", s.Phase, s.Step)
	case PhaseSuccess:
		if s.Result != nil {
			return fmt.Sprintf("%s(%s)", s.Phase, s.Result.RecipeID)
		}
	case PhaseError:
		return fmt.Sprintf("%s(%s)", s.Phase, s.Message)
	}
	return s.Phase.String()
}
