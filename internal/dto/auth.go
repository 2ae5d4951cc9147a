package dto

import (
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the data returned after a successful login.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=admin staff"`
}

// AccountResponse defines the data returned for an account. The password
// hash never leaves the domain layer.
type AccountResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID,
		Username:    acc.Username,
		DisplayName: acc.DisplayName,
		Role:        string(acc.Role),
		CreatedAt:   acc.CreatedAt,
	}
}
