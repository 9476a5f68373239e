package domain

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// Role is a named authorization label. Names are unique system-wide.
type Role struct {
	ID   string
	Name string `validate:"required,max=50"`
}

// User is an account. Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        string
	Username  string  `validate:"required,max=100"`
	Password  string  `validate:"required"`
	Person    *Person `validate:"-"`
	Roles     []Role  `validate:"min=1"`
	CreatedAt time.Time
	CreatedBy string
}

// Validate checks the business rules that must hold before persistence.
func (u *User) Validate() error {
	return check(u)
}

// HasRole reports whether the user carries a role with the given name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleIDs returns the ids of the user's roles, in order.
func (u *User) RoleIDs() []string {
	ids := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// Field exposes the searchable fields of a user by logical name.
func (u *User) Field(name string) any {
	switch name {
	case FieldID:
		return u.ID
	case FieldUsername:
		return u.Username
	case FieldCreatedAt:
		return u.CreatedAt
	}
	return nil
}
