package domain

import "fmt"

// Role is the closed set of marketplace roles an account can hold.
type Role uint8

const (
	RoleUnset Role = iota
	RoleBuyer
	RoleSeller
)

var roleNames = map[Role]string{
	RoleUnset:  "",
	RoleBuyer:  "buyer",
	RoleSeller: "seller",
}

// ParseRole converts the wire form of a role. The empty string maps to RoleUnset.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnset, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return roleNames[r]
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
