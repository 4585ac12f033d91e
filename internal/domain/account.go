package domain

import (
	"time"
)

// Role represents an account role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// TokenType distinguishes the two token variants carried in the typ claim
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// User represents a marketplace user account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Department   string    `json:"department"`
	YearOfStudy  int       `json:"year_of_study"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Admin represents an administrator account. Admins live in their own
// collection; the bootstrap gate is derived from its row count.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Department   string    `json:"department"`
	ViaBootstrap bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until access token expires
}

// Claims represents the verified content of a token
type Claims struct {
	SubjectID string    `json:"subject_id"`
	Role      Role      `json:"role"`
	TokenType TokenType `json:"token_type"`
}
