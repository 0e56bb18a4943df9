package readstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lottery-sales/internal/domain/catalog"
	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/db"
	"lottery-sales/internal/pkg/clock"
)

const findScheduleSQL = `
SELECT cutoff_time, is_active
FROM draw_schedules
WHERE zone_id = $1 AND draw_type_id = $2`

const listNumberLimitsSQL = `
SELECT number, max_pieces
FROM number_limits
WHERE zone_id = $1 AND draw_type_id = $2`

type CatalogReadStore struct {
	q db.Queryer
}

func NewCatalogReadStore(q db.Queryer) *CatalogReadStore {
	return &CatalogReadStore{q: q}
}

// SalesWindow loads the schedule row for the pair. Missing schedule is a
// NOT_FOUND repository error.
func (r *CatalogReadStore) SalesWindow(ctx context.Context, zoneID, drawTypeID int64) (*catalog.SalesWindow, error) {
	var (
		cutoff   pgtype.Time
		isActive bool
	)
	err := r.q.QueryRow(ctx, findScheduleSQL, zoneID, drawTypeID).Scan(&cutoff, &isActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("draw schedule not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find draw schedule", err)
	}
	return &catalog.SalesWindow{
		ZoneID:     zoneID,
		DrawTypeID: drawTypeID,
		Cutoff:     catalog.TimeOfDayFromMicros(cutoff.Microseconds),
		IsActive:   isActive,
	}, nil
}

// NumberLimits returns the configured per-number maximums for the pair.
// Numbers absent from the result carry no limit.
func (r *CatalogReadStore) NumberLimits(ctx context.Context, zoneID, drawTypeID int64) (map[string]int32, error) {
	rows, err := r.q.Query(ctx, listNumberLimitsSQL, zoneID, drawTypeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list number limits", err)
	}
	defer rows.Close()

	limits := make(map[string]int32)
	for rows.Next() {
		var (
			number string
			max    int32
		)
		if err := rows.Scan(&number, &max); err != nil {
			return nil, infra.WrapRepoErr("failed to scan number limit", err)
		}
		limits[number] = max
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list number limits", err)
	}
	return limits, nil
}

type catalogSnapshot struct {
	window    *catalog.SalesWindow
	limits    map[string]int32
	fetchedAt time.Time
}

// CachedCatalogReadStore memoizes schedule and limit reads per
// (zone, draw type) pair for a short TTL. Schedules and limits change
// rarely relative to issuance traffic, so a brief staleness window is
// acceptable.
type CachedCatalogReadStore struct {
	inner *CatalogReadStore
	clk   clock.Clock
	ttl   time.Duration

	mu        sync.RWMutex
	snapshots map[string]catalogSnapshot
}

func NewCachedCatalogReadStore(inner *CatalogReadStore, clk clock.Clock, ttl time.Duration) *CachedCatalogReadStore {
	return &CachedCatalogReadStore{
		inner:     inner,
		clk:       clk,
		ttl:       ttl,
		snapshots: make(map[string]catalogSnapshot),
	}
}

func (c *CachedCatalogReadStore) SalesWindow(ctx context.Context, zoneID, drawTypeID int64) (*catalog.SalesWindow, error) {
	snap, err := c.snapshot(ctx, zoneID, drawTypeID)
	if err != nil {
		return nil, err
	}
	return snap.window, nil
}

func (c *CachedCatalogReadStore) NumberLimits(ctx context.Context, zoneID, drawTypeID int64) (map[string]int32, error) {
	snap, err := c.snapshot(ctx, zoneID, drawTypeID)
	if err != nil {
		return nil, err
	}
	return snap.limits, nil
}

func (c *CachedCatalogReadStore) snapshot(ctx context.Context, zoneID, drawTypeID int64) (catalogSnapshot, error) {
	key := fmt.Sprintf("%d:%d", zoneID, drawTypeID)
	now := c.clk.Now()

	c.mu.RLock()
	snap, ok := c.snapshots[key]
	c.mu.RUnlock()
	if ok && now.Sub(snap.fetchedAt) < c.ttl {
		return snap, nil
	}

	window, err := c.inner.SalesWindow(ctx, zoneID, drawTypeID)
	if err != nil {
		return catalogSnapshot{}, err
	}
	limits, err := c.inner.NumberLimits(ctx, zoneID, drawTypeID)
	if err != nil {
		return catalogSnapshot{}, err
	}

	snap = catalogSnapshot{window: window, limits: limits, fetchedAt: now}
	c.mu.Lock()
	c.snapshots[key] = snap
	c.mu.Unlock()
	return snap, nil
}
