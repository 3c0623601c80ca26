package domain

import (
	"fmt"
	"strings"
)

// LoginRequest is the body for POST /auth/signin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects obviously incomplete credentials before the round-trip.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// SignupRequest is the body for POST /auth/signup.
// Signing up does not establish a session; the caller logs in afterwards.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate enforces the required registration fields.
func (r SignupRequest) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"firstName", r.FirstName},
		{"lastName", r.LastName},
		{"email", r.Email},
		{"password", r.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// AuthResponse is the server's reply to a successful sign-in.
// Type is the token scheme (always "Bearer" today).
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// User assembles the session identity from the sign-in response.
func (r AuthResponse) User() User {
	return User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Role:      r.Role,
	}
}

// MessageResponse is the generic acknowledgement body some endpoints return
// (e.g. POST /auth/signup).
type MessageResponse struct {
	Message string `json:"message"`
}
