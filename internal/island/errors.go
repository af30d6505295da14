package island

import (
	"errors"
	"fmt"
)

// ErrRuleViolation is returned by every mutator that refuses a change:
// unregistered civilization, occupied site, site off the grid, second
// capital, level cap. A refused call never changes the map.
var ErrRuleViolation = errors.New("rule violation")

func violation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrRuleViolation)
}
