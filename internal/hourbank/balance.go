// Package hourbank derives balances, usage and status for prepaid hour
// banks. Everything here is a pure function over an HourBank record.
package hourbank

import (
	"math"
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// Status is the single display label for a bank. Warning flags can co-occur;
// the label picks the highest-precedence condition.
type Status string

const (
	StatusExpired      Status = "Expired"
	StatusInactive     Status = "Inactive"
	StatusExpiringSoon Status = "Expiring Soon"
	StatusLowBalance   Status = "Low Balance"
	StatusActive       Status = "Active"
)

// LowBalanceThreshold is the usage percentage above which a bank is
// considered to be running low.
const LowBalanceThreshold = 80.0

// ExpiringSoonWindow is how far ahead of ExpiresAt the expiring-soon warning
// starts firing.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Balance bundles every derived figure for one bank as of a given instant.
type Balance struct {
	RemainingHours  float64
	UsagePercentage float64
	TotalValue      *float64
	Status          Status
	Expired         bool
	ExpiringSoon    bool
	RunningLow      bool
}

// RemainingHours is total minus consumed. It goes negative when a bank is
// over-consumed; callers decide how to display that, it is never clamped.
func RemainingHours(b *domain.HourBank) float64 {
	return round2(b.TotalHours - b.ConsumedHours)
}

// UsagePercentage is consumed over total. Guarded: a zero-hour bank reports
// 0 regardless of consumption.
func UsagePercentage(b *domain.HourBank) float64 {
	if b.TotalHours <= 0 {
		return 0
	}
	return round2(b.ConsumedHours / b.TotalHours * 100)
}

// TotalValue is the bank's purchase value, nil when no rate is set.
func TotalValue(b *domain.HourBank) *float64 {
	if b.HourlyRate == nil {
		return nil
	}
	v := round2(b.TotalHours * *b.HourlyRate)
	return &v
}

// IsExpired reports whether the bank's expiry has passed as of now.
func IsExpired(b *domain.HourBank, now time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}

// IsExpiringSoon reports whether the bank expires within the warning window.
func IsExpiringSoon(b *domain.HourBank, now time.Time) bool {
	if b.ExpiresAt == nil || IsExpired(b, now) {
		return false
	}
	return b.ExpiresAt.Sub(now) <= ExpiringSoonWindow
}

// Classify derives the full balance picture for a bank. Status precedence:
// Expired > Inactive > Expiring Soon > Low Balance > Active.
func Classify(b *domain.HourBank, now time.Time) Balance {
	bal := Balance{
		RemainingHours:  RemainingHours(b),
		UsagePercentage: UsagePercentage(b),
		TotalValue:      TotalValue(b),
		Expired:         IsExpired(b, now),
		ExpiringSoon:    IsExpiringSoon(b, now),
	}
	bal.RunningLow = bal.UsagePercentage > LowBalanceThreshold

	switch {
	case bal.Expired:
		bal.Status = StatusExpired
	case !b.IsActive:
		bal.Status = StatusInactive
	case bal.ExpiringSoon:
		bal.Status = StatusExpiringSoon
	case bal.RunningLow:
		bal.Status = StatusLowBalance
	default:
		bal.Status = StatusActive
	}
	return bal
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
