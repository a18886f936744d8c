package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// TxRunner runs cascades inside a multi-document transaction when enabled.
// Standalone servers do not support transactions, so it is off by default.
type TxRunner struct {
	client  *mongo.Client
	enabled bool
}

func NewTxRunner(client *mongo.Client, enabled bool) ports.TxRunner {
	return &TxRunner{client: client, enabled: enabled}
}

func (r *TxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.enabled {
		return fn(ctx)
	}

	return r.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(txCtx mongo.SessionContext) (interface{}, error) {
			return nil, fn(txCtx)
		})
		return err
	})
}
