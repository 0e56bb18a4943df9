package commands

import (
	"context"

	"github.com/google/uuid"

	"lottery-sales/internal/domain/catalog"
)

// CatalogReads supplies the issuance path with schedule and limit
// configuration. Implementations may serve slightly stale snapshots.
type CatalogReads interface {
	SalesWindow(ctx context.Context, zoneID, drawTypeID int64) (*catalog.SalesWindow, error)
	NumberLimits(ctx context.Context, zoneID, drawTypeID int64) (map[string]int32, error)
}

// ReportInvalidator evicts cached reports whose scope includes a new sale.
type ReportInvalidator interface {
	InvalidateScope(ctx context.Context, zoneID, drawTypeID int64, userID uuid.UUID) (int64, error)
}
