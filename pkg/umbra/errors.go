package umbra

import (
	"errors"
	"fmt"
)

// ErrDeckEmpty reports a draw from a deck with both piles empty. The turn
// proceeds without a card; this is never fatal.
var ErrDeckEmpty = errors.New("deck empty")

// ErrPlayerNotFound reports a reference to an unknown player ID.
var ErrPlayerNotFound = errors.New("player not found")

// RejectCode classifies why an intent was rejected.
type RejectCode string

const (
	RejectWrongPhase    RejectCode = "wrong_phase"
	RejectNotYourTurn   RejectCode = "not_your_turn"
	RejectBadTarget     RejectCode = "bad_target"
	RejectBadZone       RejectCode = "bad_zone"
	RejectNoRoll        RejectCode = "no_roll"
	RejectAlreadyRolled RejectCode = "already_rolled"
	RejectDead          RejectCode = "player_dead"
	RejectNotRevealed   RejectCode = "not_revealed"
	RejectAbilityUsed   RejectCode = "ability_used"
	RejectDisabled      RejectCode = "ability_disabled"
	RejectBadCard       RejectCode = "bad_card"
	RejectGameOver      RejectCode = "game_over"
)

// RejectError describes why an intent is invalid. Rejections are synchronous
// and leave state untouched.
type RejectError struct {
	Code    RejectCode
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("rejected (%s): %s", e.Code, e.Message)
}

func reject(code RejectCode, format string, args ...any) error {
	return &RejectError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvariantError reports a broken internal invariant, e.g. turn rotation
// finding no living player. It is not recoverable; the match loop must halt.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Message
}

// IsFatal reports whether err (or anything it wraps) is an InvariantError.
func IsFatal(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
