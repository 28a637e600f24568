package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
)

// ClosingCache holds computed monthly closings so repeated report reads skip
// the aggregation queries. Entries are dropped whenever the month is
// recomputed, so a hit is always current.
type ClosingCache interface {
	Get(ctx context.Context, key string) (*entity.MonthlyClosing, bool, error)
	Set(ctx context.Context, key string, value *entity.MonthlyClosing, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ClosingKey builds the cache key for a calendar month
func ClosingKey(month, year int) string {
	return fmt.Sprintf("closing:%04d-%02d", year, month)
}

// NoopClosingCache is used when no Redis address is configured
type NoopClosingCache struct{}

func (NoopClosingCache) Get(_ context.Context, _ string) (*entity.MonthlyClosing, bool, error) {
	return nil, false, nil
}

func (NoopClosingCache) Set(_ context.Context, _ string, _ *entity.MonthlyClosing, _ time.Duration) error {
	return nil
}

func (NoopClosingCache) Delete(_ context.Context, _ string) error {
	return nil
}
