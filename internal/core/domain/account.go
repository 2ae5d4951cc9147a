package domain

import "time"

// AccountRole distinguishes the seeded administrator from regular accounts.
type AccountRole string

const (
	RoleAdmin AccountRole = "admin"
	RoleStaff AccountRole = "staff"
)

// Account is a back-office login. Exactly one privileged account is seeded
// when the accounts table is empty.
type Account struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	DisplayName  string      `json:"displayName"`
	PasswordHash string      `json:"-"`
	Role         AccountRole `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Session is a server-side record of an issued access token. The token ID is
// embedded in the JWT as its jti claim; logout removes the row.
type Session struct {
	Token     string    `json:"token"`
	AccountID int64     `json:"accountID"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
