package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the access-token payload.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

// RegisterRequest is the payload accepted by the registration endpoint.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=150"`
	Email    string   `json:"email" validate:"required,email"`
	Role     UserRole `json:"role" validate:"required"`
	Password string   `json:"password" validate:"required,min=8"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginRequest is the payload accepted by the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// UserInfo is the public projection of a user account.
type UserInfo struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	IsApproved bool     `json:"is_approved"`
}

// LoginResponse carries the issued token pair plus the dashboard the
// client should route to for the user's role.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
	Dashboard    string    `json:"dashboard"`
	Message      string    `json:"message,omitempty"`
	User         UserInfo  `json:"user"`
}

// RefreshTokenResponse carries a rotated token pair.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Dashboard route hints returned by login, keyed by role. Unknown roles
// fall through to home rather than erroring.
const (
	DashboardAdmin   = "admin_dashboard"
	DashboardFaculty = "faculty_dashboard"
	DashboardStudent = "student_dashboard"
	DashboardHome    = "home"
)

// DashboardForRole maps a role to its post-login destination.
func DashboardForRole(role UserRole) string {
	switch role {
	case RoleAdmin:
		return DashboardAdmin
	case RoleFaculty:
		return DashboardFaculty
	case RoleStudent:
		return DashboardStudent
	default:
		return DashboardHome
	}
}
