// Package errors holds the sentinel errors and error types shared by the
// collaborator layers (FEN import, move parsing, storage, front-ends).
//
// The board and search core do not return errors; everything in here is
// produced at the edges where text or persisted data enters the engine.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check for them with errors.Is.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidSquare indicates a coordinate outside a1..h8.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrIllegalMove indicates a move text that matches no legal move.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPosition indicates a position that breaks a board invariant.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidDepth indicates a search depth outside the supported range.
	ErrInvalidDepth = errors.New("invalid search depth")

	// ErrGameNotFound indicates a missing stored game record.
	ErrGameNotFound = errors.New("game not found")
)

// PositionError ties an error to the FEN of the position it came from.
type PositionError struct {
	Err error
	FEN string
	Ply int // 0 when not replaying a move list
}

func (e *PositionError) Error() string {
	if e.Ply > 0 {
		return fmt.Sprintf("position %q, ply %d: %v", e.FEN, e.Ply, e.Err)
	}
	return fmt.Sprintf("position %q: %v", e.FEN, e.Err)
}

// Unwrap returns the underlying error.
func (e *PositionError) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Wrap adds context to an error while keeping it inspectable with errors.Is.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
