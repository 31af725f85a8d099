package models

import (
	"time"
)

// TokenScopeAuth is the scope of session tokens issued on login
const TokenScopeAuth = "auth"

// User represents a registered author
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Tokens       []Token   `json:"-" db:"-"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// Token is one live session credential of a user
type Token struct {
	Scope string `json:"scope" db:"scope"`
	Token string `json:"token" db:"token"`
}

// HasToken reports whether the user holds token in the given scope
func (u *User) HasToken(scope, token string) bool {
	for _, t := range u.Tokens {
		if t.Scope == scope && t.Token == token {
			return true
		}
	}
	return false
}

// RegisterInput is the body of POST /user
type RegisterInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginInput is the body of POST /user/login
type LoginInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
