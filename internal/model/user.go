package model

// User role constants, mirroring the backend's role claim values.
const (
	RoleUser  = "USER"
	RoleAgent = "AGENT"
	RoleAdmin = "ADMIN"
)

// User is the profile of an account as returned by the auth endpoints.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
}

// DisplayName returns the user's full name, falling back to the email
// when no name is on record.
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
