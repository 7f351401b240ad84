package service

import (
	"errors"

	"pagebuilder/internal/domain"
)

var (
	ErrNotFound          = errors.New("component not found")
	ErrNoChange          = errors.New("no change")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrDuplicateID       = domain.ErrDuplicateID
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidOutputMode = errors.New("invalid output mode")
	ErrInvalidPatch      = errors.New("invalid patch")
	ErrInvalidDocument   = errors.New("invalid document")
	ErrEmptyTemplateName = errors.New("template name cannot be empty")
)

// Outcome classifies the result of an engine call.
type Outcome int

const (
	// Applied means the document or editor state changed.
	Applied Outcome = iota
	// NoOp means nothing happened because the target was absent or the
	// call would not change anything.
	NoOp
	// Rejected means the input was refused and nothing changed.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NoOp:
		return "no-op"
	default:
		return "rejected"
	}
}

// OutcomeOf maps an error returned by an engine call to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Applied
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNoChange),
		errors.Is(err, ErrNothingToUndo),
		errors.Is(err, ErrNothingToRedo),
		errors.Is(err, ErrTemplateNotFound):
		return NoOp
	default:
		return Rejected
	}
}
