package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"smartwallet-fraud-shield/internal/domain/transaction"
)

const (
	keyPaymentsTotal   = "stats:payments:total"
	keyPaymentsBlocked = "stats:payments:blocked"
	keyVolumeSettled   = "stats:volume:settled"
	keyRecentAlerts    = "stats:alerts:recent"

	recentAlertsKept = 20
)

// StatsCache aggregates running payment counters for the stats endpoint.
type StatsCache struct {
	client *Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *Client) *StatsCache {
	return &StatsCache{client: client}
}

// AlertEntry is one blocked payment kept in the recent-alerts list.
type AlertEntry struct {
	Username  string          `json:"username"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `json:"amount"`
	RiskScore int             `json:"risk_score"`
	Timestamp time.Time       `json:"timestamp"`
}

// Snapshot is the aggregated view served by the stats endpoint.
type Snapshot struct {
	TotalPayments   int64           `json:"total_payments"`
	BlockedPayments int64           `json:"blocked_payments"`
	SettledVolume   decimal.Decimal `json:"settled_volume"`
	RecentAlerts    []AlertEntry    `json:"recent_alerts"`
}

// RecordSettled bumps the counters for a settled payment.
func (c *StatsCache) RecordSettled(ctx context.Context, amount decimal.Decimal) error {
	pipe := c.client.rdb.Pipeline()
	pipe.Incr(ctx, keyPaymentsTotal)
	pipe.IncrByFloat(ctx, keyVolumeSettled, amount.InexactFloat64())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record settled payment: %w", err)
	}
	return nil
}

// RecordBlocked bumps the counters for a blocked payment and pushes it
// onto the recent-alerts list, trimmed to the last few entries.
func (c *StatsCache) RecordBlocked(ctx context.Context, record *transaction.AuditRecord) error {
	payload, err := json.Marshal(AlertEntry{
		Username:  record.Username,
		Merchant:  record.Merchant,
		Amount:    record.Amount,
		RiskScore: record.RiskScore,
		Timestamp: record.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	pipe := c.client.rdb.Pipeline()
	pipe.Incr(ctx, keyPaymentsTotal)
	pipe.Incr(ctx, keyPaymentsBlocked)
	pipe.LPush(ctx, keyRecentAlerts, payload)
	pipe.LTrim(ctx, keyRecentAlerts, 0, recentAlertsKept-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record blocked payment: %w", err)
	}
	return nil
}

// Snapshot reads the current counters. Missing keys read as zero.
func (c *StatsCache) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{SettledVolume: decimal.Zero}

	total, err := c.client.rdb.Get(ctx, keyPaymentsTotal).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read payment total: %w", err)
	}
	snap.TotalPayments = total

	blocked, err := c.client.rdb.Get(ctx, keyPaymentsBlocked).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read blocked total: %w", err)
	}
	snap.BlockedPayments = blocked

	volume, err := c.client.rdb.Get(ctx, keyVolumeSettled).Float64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read settled volume: %w", err)
	}
	snap.SettledVolume = decimal.NewFromFloat(volume)

	raw, err := c.client.rdb.LRange(ctx, keyRecentAlerts, 0, recentAlertsKept-1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read recent alerts: %w", err)
	}
	for _, item := range raw {
		var alert AlertEntry
		if err := json.Unmarshal([]byte(item), &alert); err != nil {
			continue
		}
		snap.RecentAlerts = append(snap.RecentAlerts, alert)
	}

	return snap, nil
}
