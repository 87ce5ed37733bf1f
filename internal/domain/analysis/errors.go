package analysis

import "errors"

var (
	// ErrEmptyText is returned when the submitted text is blank.
	ErrEmptyText = errors.New("analysis: empty input text")
	// ErrEmptyTopic is returned when a topic search has no term.
	ErrEmptyTopic = errors.New("analysis: empty search topic")
	// ErrMissingSummary is a contract violation: records handed to the
	// store must carry a summary, even an empty one.
	ErrMissingSummary = errors.New("analysis: summary is required")
)
