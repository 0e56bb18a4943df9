package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lottery-sales/internal/pkg/errs"
	"lottery-sales/internal/usecase/queries"
)

const reportKeyPrefix = "report:summary:"

// ReportCache stores finished report payloads in redis. Keys embed the
// scope (zone/draw-type/user filters) of the cached report so that a new
// sale can evict exactly the entries whose scope it touches.
//
// Key layout:
//
//	report:summary:z=<ids|any>:d=<ids|any>:u=<ids|any>:<digest>
//
// where the digest covers every remaining parameter (dates, grouping,
// pagination).
type ReportCache struct {
	rdb      redis.UniversalClient
	ttl      time.Duration
	dailyTTL time.Duration
}

func NewReportCache(rdb redis.UniversalClient, ttl, dailyTTL time.Duration) *ReportCache {
	return &ReportCache{rdb: rdb, ttl: ttl, dailyTTL: dailyTTL}
}

func (c *ReportCache) Get(ctx context.Context, p queries.ReportParams) (*queries.ReportPayload, bool) {
	raw, err := c.rdb.Get(ctx, buildKey(p)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("report cache read failed", "error", err)
		}
		return nil, false
	}
	var payload queries.ReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Warn("report cache entry corrupt", "error", err)
		return nil, false
	}
	return &payload, true
}

func (c *ReportCache) Set(ctx context.Context, p queries.ReportParams, payload *queries.ReportPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("report cache encode failed", "error", err)
		return
	}
	ttl := c.ttl
	if p.Daily {
		ttl = c.dailyTTL
	}
	if err := c.rdb.Set(ctx, buildKey(p), raw, ttl).Err(); err != nil {
		slog.Warn("report cache write failed", "error", err)
	}
}

// InvalidateScope deletes every cached report whose scope can contain a
// ticket sold in the given zone by the given user for the given draw type.
func (c *ReportCache) InvalidateScope(ctx context.Context, zoneID, drawTypeID int64, userID uuid.UUID) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, reportKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, errs.Wrap(err, "failed to scan report cache")
		}
		var stale []string
		for _, key := range keys {
			scope, ok := parseScope(key)
			if !ok {
				stale = append(stale, key)
				continue
			}
			if scope.covers(zoneID, drawTypeID, userID) {
				stale = append(stale, key)
			}
		}
		if len(stale) > 0 {
			n, err := c.rdb.Del(ctx, stale...).Result()
			if err != nil {
				return deleted, errs.Wrap(err, "failed to delete report cache entries")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Clear drops every cached report regardless of scope.
func (c *ReportCache) Clear(ctx context.Context) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, reportKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, errs.Wrap(err, "failed to scan report cache")
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errs.Wrap(err, "failed to delete report cache entries")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

type keyScope struct {
	zones     []int64
	drawTypes []int64
	users     []string
}

// covers reports whether a report with this scope would include the sale.
// An empty filter segment ("any") matches everything.
func (s keyScope) covers(zoneID, drawTypeID int64, userID uuid.UUID) bool {
	return containsID(s.zones, zoneID) &&
		containsID(s.drawTypes, drawTypeID) &&
		containsUser(s.users, userID)
}

func containsID(ids []int64, id int64) bool {
	if len(ids) == 0 {
		return true
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsUser(ids []string, id uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}
	for _, v := range ids {
		if v == id.String() {
			return true
		}
	}
	return false
}

func buildKey(p queries.ReportParams) string {
	digest := paramsDigest(p)
	return reportKeyPrefix +
		"z=" + idSegment(p.ZoneIDs) +
		":d=" + idSegment(p.DrawTypeIDs) +
		":u=" + userSegment(p.UserIDs) +
		":" + digest
}

func idSegment(ids []int64) string {
	if len(ids) == 0 {
		return "any"
	}
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func userSegment(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return "any"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// paramsDigest hashes the non-scope parameters. ForceRefresh is excluded
// on purpose: a refreshed report replaces the entry the next reader hits.
func paramsDigest(p queries.ReportParams) string {
	var b strings.Builder
	if p.Start != nil {
		b.WriteString(p.Start.Format("2006-01-02"))
	}
	b.WriteByte('|')
	if p.End != nil {
		b.WriteString(p.End.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "|%s|%t|%d|%d", p.GroupBy, p.Daily, p.Page, p.PageSize)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// parseScope recovers the z/d/u segments from a cache key. Keys that do
// not parse are treated as stale and eligible for deletion.
func parseScope(key string) (keyScope, bool) {
	rest, ok := strings.CutPrefix(key, reportKeyPrefix)
	if !ok {
		return keyScope{}, false
	}
	parts := strings.SplitN(rest, ":", 4)
	if len(parts) != 4 {
		return keyScope{}, false
	}
	zones, ok := parseIDSegment(parts[0], "z=")
	if !ok {
		return keyScope{}, false
	}
	drawTypes, ok := parseIDSegment(parts[1], "d=")
	if !ok {
		return keyScope{}, false
	}
	users, ok := parseUserSegment(parts[2])
	if !ok {
		return keyScope{}, false
	}
	return keyScope{zones: zones, drawTypes: drawTypes, users: users}, true
}

func parseIDSegment(seg, prefix string) ([]int64, bool) {
	val, ok := strings.CutPrefix(seg, prefix)
	if !ok {
		return nil, false
	}
	if val == "any" {
		return nil, true
	}
	parts := strings.Split(val, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func parseUserSegment(seg string) ([]string, bool) {
	val, ok := strings.CutPrefix(seg, "u=")
	if !ok {
		return nil, false
	}
	if val == "any" {
		return nil, true
	}
	return strings.Split(val, ","), true
}
