package domain

import "github.com/identityadmin/admin-service/internal/pkg/validation"

// Logical field names shared by the query builder, in-memory matching and
// the storage adapters.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldUsername  = "username"
	FieldCreatedAt = "created_at"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldCPF       = "cpf"
	FieldGender    = "gender"
	FieldBirthdate = "birthdate"
)

func check(entity any) error {
	if msgs := validation.Struct(entity); len(msgs) > 0 {
		return &ValidationError{Fields: msgs}
	}
	return nil
}
