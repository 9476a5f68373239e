package ports

import "time"

// Transfer objects exchanged at the API boundary. Audit fields are
// read-only: they are rendered on output and ignored on input.

type CountryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type StateDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name,omitempty"`
	Country *CountryDTO `json:"country,omitempty"`
}

type CityDTO struct {
	ID    string    `json:"id"`
	Name  string    `json:"name,omitempty"`
	State *StateDTO `json:"state,omitempty"`
}

type AddressDTO struct {
	ID               string     `json:"id,omitempty"`
	Name             string     `json:"name"`
	Logradouro       string     `json:"logradouro,omitempty"`
	Number           string     `json:"number,omitempty"`
	Neighborhood     string     `json:"neighborhood,omitempty"`
	CEP              string     `json:"cep,omitempty"`
	ZipCode          string     `json:"zipCode,omitempty"`
	Coordination     string     `json:"coordination,omitempty"`
	ReferentialPoint string     `json:"referentialPoint,omitempty"`
	City             *CityDTO   `json:"city"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	CreatedBy        string     `json:"createdBy,omitempty"`
}

type PersonDTO struct {
	ID           string      `json:"id,omitempty"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName,omitempty"`
	Gender       string      `json:"gender,omitempty"`
	Email        string      `json:"email,omitempty"`
	CPF          string      `json:"cpf,omitempty"`
	Birthdate    *time.Time  `json:"birthdate,omitempty"`
	Address      *AddressDTO `json:"address"`
	BirthCity    *CityDTO    `json:"birthCity"`
	BirthCountry *CountryDTO `json:"birthCountry"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
	CreatedBy    string      `json:"createdBy,omitempty"`
}

type RoleDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UserDTO carries Password inbound only; every outbound UserDTO has it cleared.
type UserDTO struct {
	ID        string     `json:"id,omitempty"`
	Username  string     `json:"username"`
	Password  string     `json:"password,omitempty"`
	Person    *PersonDTO `json:"person"`
	Roles     []RoleDTO  `json:"roles"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	CreatedBy string     `json:"createdBy,omitempty"`
}

type UpdatePassword struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type LogradouroDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PageQuery holds raw paging directives as supplied by the caller.
type PageQuery struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
	SortField string `json:"sortField"`
	SortDir   string `json:"sortDir"`
}

// UserQuery filters users; Name matches the username, the date range
// applies to the creation timestamp.
type UserQuery struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	PageQuery
}

// PersonQuery filters persons; Name matches first or last name, the date
// range applies to the birthdate.
type PersonQuery struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CPF       string     `json:"cpf"`
	Gender    string     `json:"gender"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	PageQuery
}
