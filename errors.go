package chessgif

import "errors"

var (
	// ErrAnalysisMissing reports that an evaluation-dependent feature was
	// requested while at least one ply lacks an evaluation. It surfaces
	// from the enable call, never later.
	ErrAnalysisMissing = errors.New("game analysis missing")

	// ErrInvalidConfiguration reports an unusable generator setup: board
	// below the minimum, unknown theme, zero-ply game, non-positive sizes
	// or durations, or configuration after generation started.
	ErrInvalidConfiguration = errors.New("invalid generator configuration")

	// ErrInputMalformed reports an inconsistent game input.
	ErrInputMalformed = errors.New("malformed game input")
)
