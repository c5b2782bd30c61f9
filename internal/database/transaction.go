package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction executes fn within a transaction, committing on success or
// rolling back on error or panic.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// WithTransactionResult executes fn within a transaction, returning the
// result on success.
func WithTransactionResult[T any](ctx context.Context, db Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
