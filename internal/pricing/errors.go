package pricing

import "errors"

var (
	// ErrConfiguration signals a malformed or missing tier table, or a profile
	// that does not name a known rounding rule.
	ErrConfiguration = errors.New("pricing: configuration error")
	// ErrInvalidMargin is returned when a tier's margin denominator is outside (0, 1].
	ErrInvalidMargin = errors.New("pricing: invalid margin denominator")
	// ErrMissingTierData is returned when no cost row exists for a tier/option combination.
	ErrMissingTierData = errors.New("pricing: missing tier data")
	// ErrInvalidRequest signals bad request data such as a zero quantity or a negative cost.
	ErrInvalidRequest = errors.New("pricing: invalid request")
)
