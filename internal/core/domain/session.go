package domain

import "time"

// RoleAdmin is the only role able to use the administrative API.
const RoleAdmin = "admin"

// Session is an authenticated admin login.
type Session struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
