package api

import "context"

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the body for POST /auth/register.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a session token. The credentials travel
// as-is; the backend owns password handling.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.postJSON(ctx, c.base+"/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// SignUp creates a new account and returns the backend's acknowledgment
// message.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	var out messageResponse
	if err := c.postJSON(ctx, c.base+"/auth/register", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
