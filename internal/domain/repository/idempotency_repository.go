package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns the cached response for a shop's key, nil when unseen
	GetByKey(ctx context.Context, shopID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired keys and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
