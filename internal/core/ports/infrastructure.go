package ports

import (
	"context"
	"time"
)

// TxRunner executes fn as one unit of work when the store supports it.
// Implementations without transactions simply call fn.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionStore keeps the ids of live admin sessions.
type SessionStore interface {
	Save(ctx context.Context, id string, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Locker hands out short-lived exclusive locks by key. Acquire reports
// false when another holder owns the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// Cipher is the reversible credential encryption used for account passwords.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	// Decrypt never fails; unreadable input yields "".
	Decrypt(ciphertext string) string
}
