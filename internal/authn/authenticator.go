package authn

import "context"

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
}
