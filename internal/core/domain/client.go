package domain

import "time"

// Client is a person who rents a profile slot. WhatsApp holds the
// normalized contact key and is unique across clients.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WhatsApp  string    `json:"whatsapp"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
