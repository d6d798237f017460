// Package monitor watches how long transactions keep a pooled connection.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"campusfood/infrastructure/persistence"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
)

const DefaultHoldThreshold = 5 * time.Second

// HoldMonitor warns about transactions held past a threshold.
// It only reports; it never closes anything. A nil *HoldMonitor is a no-op.
type HoldMonitor struct {
	threshold time.Duration

	active   atomic.Int64
	opened   atomic.Int64
	warnings atomic.Int64
}

type HoldStats struct {
	Threshold time.Duration `json:"-"`
	// ThresholdText is Threshold rendered for JSON.
	ThresholdText string `json:"threshold"`
	Active        int64  `json:"active"`
	Opened        int64  `json:"opened"`
	Warnings      int64  `json:"long_holds"`
}

func NewHoldMonitor(threshold time.Duration) *HoldMonitor {
	if threshold <= 0 {
		threshold = DefaultHoldThreshold
	}
	return &HoldMonitor{threshold: threshold}
}

// Track marks a transaction as open. The returned func must be called exactly
// once when the transaction ends.
func (m *HoldMonitor) Track(ctx context.Context, op string) func() {
	if m == nil {
		return func() {}
	}
	m.active.Add(1)
	m.opened.Add(1)
	start := time.Now()
	requestID := persistence.RequestIDFromContext(ctx)

	timer := time.AfterFunc(m.threshold, func() {
		m.warnings.Add(1)
		logger.Warn("Transaction held past threshold",
			zap.String("op", op),
			zap.Duration("held_for", time.Since(start)),
			zap.Duration("threshold", m.threshold),
			zap.String("request_id", requestID),
		)
	})

	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		timer.Stop()
		m.active.Add(-1)
		if held := time.Since(start); held >= m.threshold {
			logger.Info("Long transaction released",
				zap.String("op", op),
				zap.Duration("held_for", held),
				zap.String("request_id", requestID),
			)
		}
	}
}

func (m *HoldMonitor) Stats() HoldStats {
	if m == nil {
		return HoldStats{}
	}
	return HoldStats{
		Threshold:     m.threshold,
		ThresholdText: m.threshold.String(),
		Active:        m.active.Load(),
		Opened:        m.opened.Load(),
		Warnings:      m.warnings.Load(),
	}
}
