package worker

import (
	"fmt"

	"atelier/internal/pkg/errs"
)

// Role is the production role a worker holds. Each role acts on its own stages of the pipeline.
type Role int

const (
	UnknownRole Role = iota
	Cutter
	Tailor
	Finisher
	Admin
)

func roleNames() map[Role]string {
	return map[Role]string{
		Cutter:   "cutter",
		Tailor:   "tailor",
		Finisher: "finisher",
		Admin:    "admin",
	}
}

// ParseRole converts the wire name of a role into a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames() {
		if name == s {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Roles lists every valid role in a stable order.
func Roles() []Role {
	return []Role{Cutter, Tailor, Finisher, Admin}
}

func (r Role) String() string {
	if name, ok := roleNames()[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) Validate() error {
	if _, ok := roleNames()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}
