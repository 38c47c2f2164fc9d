package service

import (
	"context"

	"github.com/martingh15/proyecto-backend/internal/infra"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Notificador queues outgoing e-mail. worker.Dispatcher implements it.
type Notificador interface {
	EnqueueEmail(ctx context.Context, msg infra.Mensaje) error
}
