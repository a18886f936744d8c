package ports

import (
	"context"
	"time"
)

// AccessDetail is what a client sees when looking up their access.
type AccessDetail struct {
	ClientName  string
	Email       string
	Password    string
	ProfileName string
	PIN         string
	ExpiryDate  time.Time
}

// AccessService answers the public, read-only client lookups.
type AccessService interface {
	Access(ctx context.Context, whatsapp string) (*AccessDetail, error)
	// History returns the client's latest assignments, newest first.
	History(ctx context.Context, whatsapp string) ([]AssignmentView, error)
}
