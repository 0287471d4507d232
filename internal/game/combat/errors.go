package combat

import (
	"errors"
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
)

var (
	// ErrAbilityUnavailable signals an unmet ability precondition. It is
	// recoverable: nothing was consumed and the caller should re-prompt.
	ErrAbilityUnavailable = errors.New("ability unavailable")
	// ErrInvalidTarget signals a defeated target or a targeting rule violation.
	// It is recoverable: the caller should re-prompt.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidAction signals an action the actor cannot take, such as using
	// an item the party does not hold.
	ErrInvalidAction = errors.New("invalid action")
	// ErrUnknownCombatant is returned for ids not in the battle.
	ErrUnknownCombatant = errors.New("unknown combatant")
	// ErrBattleOver is returned when acting on a finished battle.
	ErrBattleOver = errors.New("battle is over")
	// ErrBattleNotOver is returned by Result before the battle has ended.
	ErrBattleNotOver = errors.New("battle is not over")
)

// UnavailableError reports which precondition blocked an ability.
// It wraps ErrAbilityUnavailable.
type UnavailableError struct {
	Ability string
	Reason  ability.Reason
}

// Error implements error.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrAbilityUnavailable, e.Ability, e.Reason)
}

// Unwrap returns ErrAbilityUnavailable.
func (e *UnavailableError) Unwrap() error { return ErrAbilityUnavailable }

// TargetError reports why a target was rejected. It wraps ErrInvalidTarget.
type TargetError struct {
	Target string
	Reason string
}

// Error implements error.
func (e *TargetError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidTarget, e.Target, e.Reason)
}

// Unwrap returns ErrInvalidTarget.
func (e *TargetError) Unwrap() error { return ErrInvalidTarget }

// IsRecoverable reports whether err only asks the caller to choose another action.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrAbilityUnavailable) || errors.Is(err, ErrInvalidTarget) || errors.Is(err, ErrInvalidAction)
}
