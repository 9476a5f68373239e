package domain

// Country is the root of the geographic reference hierarchy.
type Country struct {
	ID   string
	Name string
}

// State belongs to exactly one Country.
type State struct {
	ID      string
	Name    string
	Country *Country
}

// City belongs to exactly one State.
type City struct {
	ID    string
	Name  string
	State *State
}

// CountryID walks the parent chain; it returns "" when any link is missing.
func (c *City) CountryID() string {
	if c == nil || c.State == nil || c.State.Country == nil {
		return ""
	}
	return c.State.Country.ID
}
