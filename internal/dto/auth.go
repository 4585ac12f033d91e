package dto

import (
	"regexp"
	"strings"
	"unicode"
)

// emailRegex is an RFC 5322 compliant email check (simplified)
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Credentials is the canonical credential record every auth flow is
// normalized into before entering the service layer. The frontend sends
// varying field names per flow (email vs user_email vs admin_email);
// handlers never branch on those variants.
type Credentials struct {
	Identifier string // lower-cased, trimmed email
	Secret     string // plaintext password
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SignupRequest represents a user registration request. Both the plain
// and the user_-prefixed field names the frontend uses are accepted.
type SignupRequest struct {
	Email        string `json:"email"`
	UserEmail    string `json:"user_email"`
	Password     string `json:"password"`
	UserPassword string `json:"user_password"`
	Name         string `json:"name"`
	UserName     string `json:"user_name"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
	YearOfStudy  int    `json:"year_of_study"`
}

// Credentials normalizes the request into the canonical credential record
func (r *SignupRequest) Credentials() Credentials {
	return Credentials{
		Identifier: NormalizeEmail(firstNonEmpty(r.Email, r.UserEmail)),
		Secret:     firstNonEmpty(r.Password, r.UserPassword),
	}
}

// DisplayName returns the submitted name regardless of field variant
func (r *SignupRequest) DisplayName() string {
	return strings.TrimSpace(firstNonEmpty(r.Name, r.UserName))
}

// Validate checks the request shape. Returns ok and a human-readable reason.
func (r *SignupRequest) Validate() (bool, string) {
	creds := r.Credentials()
	if creds.Identifier == "" {
		return false, "Email is required"
	}
	if !emailRegex.MatchString(creds.Identifier) {
		return false, "Invalid email format"
	}
	if r.DisplayName() == "" {
		return false, "Name is required"
	}
	if len(r.DisplayName()) < 2 {
		return false, "Name must be at least 2 characters"
	}
	return ValidatePasswordStrength(creds.Secret)
}

// ValidatePasswordStrength enforces the signup password policy:
// at least 8 characters with upper, lower, digit and special characters.
func ValidatePasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must not exceed 72 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one digit"
	}
	if !hasSpecial {
		return false, "Password must contain at least one special character"
	}
	return true, ""
}

// ValidatePasswordLength is the relaxed policy used for the operator-chosen
// bootstrap password: length bounds only.
func ValidatePasswordLength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must not exceed 72 characters"
	}
	return true, ""
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email        string `json:"email"`
	UserEmail    string `json:"user_email"`
	Password     string `json:"password"`
	UserPassword string `json:"user_password"`
}

// Credentials normalizes the request into the canonical credential record
func (r *LoginRequest) Credentials() Credentials {
	return Credentials{
		Identifier: NormalizeEmail(firstNonEmpty(r.Email, r.UserEmail)),
		Secret:     firstNonEmpty(r.Password, r.UserPassword),
	}
}

// Validate checks the request shape
func (r *LoginRequest) Validate() (bool, string) {
	creds := r.Credentials()
	if creds.Identifier == "" {
		return false, "Email is required"
	}
	if creds.Secret == "" {
		return false, "Password is required"
	}
	return true, ""
}

// AdminLoginRequest represents an admin login request
type AdminLoginRequest struct {
	Email         string `json:"email"`
	AdminEmail    string `json:"admin_email"`
	Password      string `json:"password"`
	AdminPassword string `json:"admin_password"`
}

// Credentials normalizes the request into the canonical credential record
func (r *AdminLoginRequest) Credentials() Credentials {
	return Credentials{
		Identifier: NormalizeEmail(firstNonEmpty(r.Email, r.AdminEmail)),
		Secret:     firstNonEmpty(r.Password, r.AdminPassword),
	}
}

// Validate checks the request shape
func (r *AdminLoginRequest) Validate() (bool, string) {
	creds := r.Credentials()
	if creds.Identifier == "" {
		return false, "Email is required"
	}
	if creds.Secret == "" {
		return false, "Password is required"
	}
	return true, ""
}

// BootstrapAdminRequest represents the first-admin bootstrap payload
type BootstrapAdminRequest struct {
	AdminName       string `json:"admin_name"`
	AdminEmail      string `json:"admin_email"`
	AdminPassword   string `json:"admin_password"`
	AdminPhone      string `json:"admin_phone"`
	AdminDepartment string `json:"admin_department"`
}

// Credentials normalizes the request into the canonical credential record
func (r *BootstrapAdminRequest) Credentials() Credentials {
	return Credentials{
		Identifier: NormalizeEmail(r.AdminEmail),
		Secret:     r.AdminPassword,
	}
}

// Validate checks the request shape
func (r *BootstrapAdminRequest) Validate() (bool, string) {
	creds := r.Credentials()
	if creds.Identifier == "" {
		return false, "Admin email is required"
	}
	if !emailRegex.MatchString(creds.Identifier) {
		return false, "Invalid email format"
	}
	if strings.TrimSpace(r.AdminName) == "" {
		return false, "Admin name is required"
	}
	return ValidatePasswordLength(creds.Secret)
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken      string `json:"refreshToken"`
	RefreshTokenSnake string `json:"refresh_token"`
}

// Token returns the submitted refresh token regardless of field variant
func (r *RefreshTokenRequest) Token() string {
	return firstNonEmpty(r.RefreshToken, r.RefreshTokenSnake)
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Department  string `json:"department"`
	YearOfStudy int    `json:"year_of_study"`
}

// Validate checks the request shape
func (r *UpdateProfileRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Name is required"
	}
	if len(strings.TrimSpace(r.Name)) < 2 {
		return false, "Name must be at least 2 characters"
	}
	if r.YearOfStudy < 0 || r.YearOfStudy > 10 {
		return false, "Year of study is out of range"
	}
	return true, ""
}

// AuthResponse represents a successful user authentication
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         UserResponse `json:"user"`
}

// AdminAuthResponse represents a successful admin authentication
type AdminAuthResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    int64         `json:"expiresIn"`
	Admin        AdminResponse `json:"admin"`
}

// RefreshResponse carries the rotated token pair
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// UserResponse represents user data in responses (never the hash)
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Department  string `json:"department,omitempty"`
	YearOfStudy int    `json:"year_of_study,omitempty"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

// AdminResponse represents admin data in responses (never the hash)
type AdminResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	CreatedAt  string `json:"created_at"`
}
