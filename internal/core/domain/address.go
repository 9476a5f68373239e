package domain

import "time"

// Logradouro is the street type of an address (rua, avenida, ...).
type Logradouro string

const (
	LogradouroRua      Logradouro = "RUA"
	LogradouroAvenida  Logradouro = "AVENIDA"
	LogradouroTravessa Logradouro = "TRAVESSA"
	LogradouroAlameda  Logradouro = "ALAMEDA"
	LogradouroEstrada  Logradouro = "ESTRADA"
	LogradouroRodovia  Logradouro = "RODOVIA"
	LogradouroPraca    Logradouro = "PRACA"
	LogradouroLargo    Logradouro = "LARGO"
	LogradouroViela    Logradouro = "VIELA"
)

var logradouroLabels = []struct {
	value Logradouro
	label string
}{
	{LogradouroRua, "Rua"},
	{LogradouroAvenida, "Avenida"},
	{LogradouroTravessa, "Travessa"},
	{LogradouroAlameda, "Alameda"},
	{LogradouroEstrada, "Estrada"},
	{LogradouroRodovia, "Rodovia"},
	{LogradouroPraca, "Praça"},
	{LogradouroLargo, "Largo"},
	{LogradouroViela, "Viela"},
}

// LogradouroOption is one entry of the street-type catalogue.
type LogradouroOption struct {
	Value Logradouro
	Label string
}

// Logradouros returns the street-type catalogue in display order.
func Logradouros() []LogradouroOption {
	out := make([]LogradouroOption, 0, len(logradouroLabels))
	for _, l := range logradouroLabels {
		out = append(out, LogradouroOption{Value: l.value, Label: l.label})
	}
	return out
}

type Address struct {
	ID               string
	Name             string     `validate:"required,max=150"`
	Logradouro       Logradouro `validate:"omitempty,oneof=RUA AVENIDA TRAVESSA ALAMEDA ESTRADA RODOVIA PRACA LARGO VIELA"`
	Number           string     `validate:"max=20"`
	Neighborhood     string     `validate:"max=100"`
	CEP              string     `validate:"max=9"`
	ZipCode          string     `validate:"max=20"`
	Coordination     string
	ReferentialPoint string
	City             *City `validate:"-"`
	CreatedAt        time.Time
	CreatedBy        string
}

func (a *Address) Validate() error {
	return check(a)
}

func (a *Address) Field(name string) any {
	switch name {
	case FieldID:
		return a.ID
	case FieldName:
		return a.Name
	}
	return nil
}
