//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, pool *pgxpool.Pool, username, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO users (id, username, role) VALUES ($1, $2, $3)", id, username, role)
	require.NoError(t, err)
	return id
}

func createZone(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO zones (name) VALUES ($1) RETURNING id", name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createDrawType(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO draw_types (code, name) VALUES ($1, $2) RETURNING id", name, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createSchedule(t *testing.T, pool *pgxpool.Pool, zoneID, drawTypeID int64, cutoff string, active bool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO draw_schedules (zone_id, draw_type_id, cutoff_time, is_active) VALUES ($1, $2, $3, $4)",
		zoneID, drawTypeID, cutoff, active)
	require.NoError(t, err)
}

func createNumberLimit(t *testing.T, pool *pgxpool.Pool, zoneID, drawTypeID int64, number string, max int32) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO number_limits (zone_id, draw_type_id, number, max_pieces) VALUES ($1, $2, $3, $4)",
		zoneID, drawTypeID, number, max)
	require.NoError(t, err)
}
