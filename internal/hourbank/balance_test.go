package hourbank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func bank(total, consumed float64) *domain.HourBank {
	return &domain.HourBank{
		ID:            "b-1",
		TotalHours:    total,
		ConsumedHours: consumed,
		IsActive:      true,
	}
}

func TestRemainingHours(t *testing.T) {
	assert.Equal(t, 60.0, RemainingHours(bank(100, 40)))
	// Over-consumption goes negative, never clamped.
	assert.Equal(t, -5.0, RemainingHours(bank(10, 15)))
	assert.Equal(t, 12.35, RemainingHours(bank(20, 7.654)))
}

func TestUsagePercentage(t *testing.T) {
	assert.Equal(t, 40.0, UsagePercentage(bank(100, 40)))
	assert.Equal(t, 150.0, UsagePercentage(bank(10, 15)))
	// Zero-hour bank reports zero regardless of consumption.
	assert.Equal(t, 0.0, UsagePercentage(bank(0, 5)))
}

func TestTotalValue(t *testing.T) {
	b := bank(100, 0)
	assert.Nil(t, TotalValue(b))

	rate := 50.0
	b.HourlyRate = &rate
	v := TotalValue(b)
	assert.NotNil(t, v)
	assert.Equal(t, 5000.0, *v)
}

func TestExpiry(t *testing.T) {
	b := bank(100, 0)
	assert.False(t, IsExpired(b, now))
	assert.False(t, IsExpiringSoon(b, now))

	past := now.Add(-time.Hour)
	b.ExpiresAt = &past
	assert.True(t, IsExpired(b, now))
	assert.False(t, IsExpiringSoon(b, now))

	soon := now.Add(10 * 24 * time.Hour)
	b.ExpiresAt = &soon
	assert.False(t, IsExpired(b, now))
	assert.True(t, IsExpiringSoon(b, now))

	far := now.Add(90 * 24 * time.Hour)
	b.ExpiresAt = &far
	assert.False(t, IsExpiringSoon(b, now))
}

func TestClassifyStatusPrecedence(t *testing.T) {
	past := now.Add(-time.Hour)
	soon := now.Add(10 * 24 * time.Hour)

	tests := []struct {
		name   string
		mutate func(*domain.HourBank)
		want   Status
	}{
		{"healthy", func(b *domain.HourBank) {}, StatusActive},
		{"low balance above threshold", func(b *domain.HourBank) { b.ConsumedHours = 90 }, StatusLowBalance},
		{"exactly at threshold stays active", func(b *domain.HourBank) { b.ConsumedHours = 80 }, StatusActive},
		{"expiring soon beats low balance", func(b *domain.HourBank) {
			b.ConsumedHours = 90
			b.ExpiresAt = &soon
		}, StatusExpiringSoon},
		{"inactive beats expiring soon", func(b *domain.HourBank) {
			b.IsActive = false
			b.ExpiresAt = &soon
		}, StatusInactive},
		{"expired beats everything", func(b *domain.HourBank) {
			b.IsActive = false
			b.ConsumedHours = 90
			b.ExpiresAt = &past
		}, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bank(100, 0)
			tt.mutate(b)
			assert.Equal(t, tt.want, Classify(b, now).Status)
		})
	}
}

func TestClassifyFlagsCoOccur(t *testing.T) {
	past := now.Add(-time.Hour)
	b := bank(100, 95)
	b.ExpiresAt = &past

	bal := Classify(b, now)
	assert.Equal(t, StatusExpired, bal.Status)
	assert.True(t, bal.Expired)
	assert.True(t, bal.RunningLow)
	assert.Equal(t, 5.0, bal.RemainingHours)
}
