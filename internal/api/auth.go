package api

import (
	"context"
	"net/http"

	"github.com/pkordes/tripkit/internal/domain"
)

// SignIn exchanges credentials for a bearer token and the account identity.
// Invalid credentials surface as an *APIError with the server's message.
func (c *Client) SignIn(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", req, &resp); err != nil {
		return domain.AuthResponse{}, err
	}
	return resp, nil
}

// SignUp registers a new account. It returns the server's acknowledgement;
// no session is created by this call.
func (c *Client) SignUp(ctx context.Context, req domain.SignupRequest) (domain.MessageResponse, error) {
	var resp domain.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return domain.MessageResponse{}, err
	}
	return resp, nil
}
