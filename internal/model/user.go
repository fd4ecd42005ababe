package model

import "time"

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Account is the public projection of a User. The password hash never
// crosses the API boundary.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Account() Account {
	return Account{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Role    string `json:"role"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

type AuthResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"token_type"`
	ExpiresIn int64   `json:"expires_in"`
	User      Account `json:"user"`
}
