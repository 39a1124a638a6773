package models

import "strings"

// Account is the backend's built-in user record, loaded with the
// sub-fields the UI needs for attribution.
type Account struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email,omitempty"`
	Avatar    *string `json:"avatar"`
}

// DisplayName joins the name parts, falling back to a generic label
// when the account carries no usable name.
func (v Account) DisplayName() string {
	name := strings.TrimSpace(strings.Join([]string{v.FirstName, v.LastName}, " "))
	if len(name) == 0 {
		return "User"
	}
	return name
}
