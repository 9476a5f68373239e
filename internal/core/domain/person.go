package domain

import (
	"strings"
	"time"
	"unicode"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Person holds the personal data optionally attached to a User.
type Person struct {
	ID           string
	FirstName    string  `validate:"required,max=100"`
	LastName     string  `validate:"max=100"`
	Gender       Gender  `validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Email        string  `validate:"omitempty,email"`
	CPF          string  `validate:"omitempty,numeric,len=11"`
	Birthdate    *time.Time
	Address      *Address `validate:"-"`
	BirthCity    *City    `validate:"-"`
	BirthCountry *Country `validate:"-"`
	CreatedAt    time.Time
	CreatedBy    string
}

func (p *Person) Validate() error {
	return check(p)
}

// FullName joins first and last name.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Person) Field(name string) any {
	switch name {
	case FieldID:
		return p.ID
	case FieldFirstName:
		return p.FirstName
	case FieldLastName:
		return p.LastName
	case FieldEmail:
		return p.Email
	case FieldCPF:
		return p.CPF
	case FieldGender:
		return string(p.Gender)
	case FieldBirthdate:
		if p.Birthdate == nil {
			return nil
		}
		return *p.Birthdate
	}
	return nil
}

// NormalizeCPF strips the punctuation a CPF is usually written with
// ("123.456.789-09" becomes "12345678909").
func NormalizeCPF(cpf string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cpf)
}
