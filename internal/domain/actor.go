package domain

import "errors"

// Role is decided once at the transport boundary from the identity provider's
// claims; handlers and services never re-derive it.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role Role
}
