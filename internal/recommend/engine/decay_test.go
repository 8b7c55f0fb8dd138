package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdjust_DecaysWithInactivity(t *testing.T) {
	adj := NewAdjuster(DefaultConfig())
	ctx := testContext()

	tests := []struct {
		name     string
		base     float64
		idleDays float64
		want     float64
	}{
		{name: "fresh activity keeps base", base: 80, idleDays: 0, want: 80},
		{name: "one idle day", base: 80, idleDays: 1, want: 80 * 0.95},
		{name: "ten idle days", base: 80, idleDays: 10, want: 80 * math.Pow(0.95, 10)},
		{name: "long inactivity hits the floor", base: 80, idleDays: 90, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate("d")
			c.LastActivity = testNow.Add(-time.Duration(tt.idleDays*24) * time.Hour)

			got := adj.Adjust(tt.base, c, ctx)

			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAdjust_DeadlineOverrideBypassesDecay(t *testing.T) {
	adj := NewAdjuster(DefaultConfig())
	ctx := testContext()

	// Ten days idle would normally decay the base hard; an imminent
	// deadline ignores that entirely.
	c := testCandidate("o")
	c.LastActivity = testNow.Add(-10 * 24 * time.Hour)

	tests := []struct {
		name      string
		remaining time.Duration
		want      float64
	}{
		{name: "past deadline", remaining: -time.Hour, want: 100},
		{name: "due this hour", remaining: 30 * time.Minute, want: 100},
		{name: "due in exactly one hour", remaining: time.Hour, want: 100},
		{name: "at the window edge", remaining: 48 * time.Hour, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testNow.Add(tt.remaining)
			c.Deadline = &d

			got := adj.Adjust(20, c, ctx)

			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAdjust_OverrideIsMonotonic(t *testing.T) {
	adj := NewAdjuster(DefaultConfig())
	ctx := testContext()
	c := testCandidate("mono")

	prev := 200.0
	for hours := 1; hours <= 48; hours++ {
		d := testNow.Add(time.Duration(hours) * time.Hour)
		c.Deadline = &d

		got := adj.Adjust(0, c, ctx)

		assert.GreaterOrEqual(t, got, 90.0)
		assert.LessOrEqual(t, got, 100.0)
		assert.LessOrEqual(t, got, prev, "override increased at %dh remaining", hours)
		prev = got
	}
}

func TestAdjust_OutsideWindowStillDecays(t *testing.T) {
	adj := NewAdjuster(DefaultConfig())
	ctx := testContext()

	c := testCandidate("far")
	d := testNow.Add(5 * 24 * time.Hour)
	c.Deadline = &d
	c.LastActivity = testNow.Add(-2 * 24 * time.Hour)

	got := adj.Adjust(80, c, ctx)

	assert.InDelta(t, 80*math.Pow(0.95, 2), got, 1e-9)
}

func TestAdjust_FloorNeverRaisesOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScoreFloor = 10
	adj := NewAdjuster(cfg)

	// The override band sits well above the floor for any remaining time
	// inside the window.
	c := testCandidate("band")
	d := testNow.Add(47 * time.Hour)
	c.Deadline = &d

	got := adj.Adjust(5, c, testContext())
	assert.Greater(t, got, 90.0)
}
