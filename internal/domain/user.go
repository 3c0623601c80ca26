package domain

// Role is the authorization level the server assigns to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User identifies an account as the server describes it.
type User struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	Role              Role   `json:"role"`
}

// FullName returns the display name used by the view layer.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
