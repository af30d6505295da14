package island

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Civilization is the owning identity for cities and roads. It is opaque
// and comparable; the zero value is not a valid civilization.
type Civilization struct {
	id string
}

// ParseCivilization wraps a caller-chosen identity. The id must contain
// something other than whitespace.
func ParseCivilization(id string) (Civilization, error) {
	if strings.TrimSpace(id) == "" {
		return Civilization{}, fmt.Errorf("civilization id %q: empty", id)
	}
	return Civilization{id: id}, nil
}

// NewCivilization returns a civilization with a freshly generated identity.
func NewCivilization() Civilization {
	return Civilization{id: uuid.New().String()}
}

// ID returns the identity string.
func (c Civilization) ID() string {
	return c.id
}

// Valid reports whether c was built by ParseCivilization or NewCivilization.
func (c Civilization) Valid() bool {
	return c.id != ""
}

func (c Civilization) String() string {
	return c.id
}
