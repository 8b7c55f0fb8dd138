package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

func TestExtract_ProducesAllFactors(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	fs := ex.Extract(testCandidate("a"), testContext())

	assert.Len(t, fs, len(FactorOrder))
	for _, name := range FactorOrder {
		f, ok := fs[name]
		assert.True(t, ok, "missing factor %s", name)
		assert.GreaterOrEqual(t, f.Raw, 0.0)
		assert.LessOrEqual(t, f.Raw, 100.0)
	}
}

func TestUrgency(t *testing.T) {
	ex := NewExtractor(DefaultConfig())
	horizonHours := float64(DefaultConfig().HorizonDays) * 24

	past := testNow.Add(-time.Hour)
	halfway := testNow.Add(time.Duration(horizonHours/2) * time.Hour)
	beyond := testNow.Add(time.Duration(horizonHours+100) * time.Hour)

	tests := []struct {
		name          string
		deadline      *time.Time
		wantRaw       float64
		wantDefaulted bool
	}{
		{name: "no deadline", deadline: nil, wantRaw: 30, wantDefaulted: true},
		{name: "past deadline", deadline: &past, wantRaw: 100},
		{name: "halfway through horizon", deadline: &halfway, wantRaw: 50},
		{name: "beyond horizon", deadline: &beyond, wantRaw: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate("u")
			c.Deadline = tt.deadline

			f := ex.Extract(c, testContext())[FactorUrgency]

			assert.InDelta(t, tt.wantRaw, f.Raw, 1e-9)
			assert.Equal(t, tt.wantDefaulted, f.Defaulted)
		})
	}
}

func TestImportanceAndAlignmentRescale(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	c := testCandidate("r")
	c.Importance = 1
	c.Alignment = 10

	fs := ex.Extract(c, testContext())

	assert.Equal(t, 0.0, fs[FactorImportance].Raw)
	assert.Equal(t, 100.0, fs[FactorAlignment].Raw)

	c.Importance = 10
	fs = ex.Extract(c, testContext())
	assert.Equal(t, 100.0, fs[FactorImportance].Raw)
}

func TestEffortFit(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	tests := []struct {
		name          string
		effort        int
		available     int
		wantRaw       float64
		wantDefaulted bool
	}{
		{name: "no estimate defaults to midpoint", effort: 0, available: 60, wantRaw: 50, wantDefaulted: true},
		{name: "fits half the slot", effort: 30, available: 60, wantRaw: 60},
		{name: "fills the slot exactly", effort: 60, available: 60, wantRaw: 20},
		{name: "double the slot", effort: 120, available: 60, wantRaw: 10},
		{name: "absurdly oversized clamps at zero", effort: 600, available: 60, wantRaw: 0},
		{name: "no budget uses day-length reference", effort: 240, available: 0, wantRaw: 60, wantDefaulted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate("e")
			c.EffortMinutes = tt.effort
			ctx := testContext()
			ctx.AvailableMinutes = tt.available

			f := ex.Extract(c, ctx)[FactorEffort]

			assert.InDelta(t, tt.wantRaw, f.Raw, 1e-9)
			assert.Equal(t, tt.wantDefaulted, f.Defaulted)
		})
	}
}

func TestEnergyMatch(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	tests := []struct {
		name          string
		required      domain.EnergyLevel
		rating        int
		wantRaw       float64
		wantDefaulted bool
	}{
		{name: "exact match", required: domain.EnergyHigh, rating: 8, wantRaw: 100},
		{name: "one level off", required: domain.EnergyHigh, rating: 5, wantRaw: 50},
		{name: "two levels off", required: domain.EnergyPeak, rating: 5, wantRaw: 0},
		{name: "three levels off clamps", required: domain.EnergyPeak, rating: 2, wantRaw: 0},
		{name: "unknown rating assumes medium", required: domain.EnergyMedium, rating: 0, wantRaw: 100, wantDefaulted: true},
		{name: "unknown rating penalizes peak work", required: domain.EnergyPeak, rating: 0, wantRaw: 0, wantDefaulted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate("en")
			c.Energy = tt.required
			ctx := testContext()
			ctx.EnergyRating = tt.rating

			f := ex.Extract(c, ctx)[FactorEnergy]

			assert.InDelta(t, tt.wantRaw, f.Raw, 1e-9)
			assert.Equal(t, tt.wantDefaulted, f.Defaulted)
		})
	}
}

func TestContextMatch(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	tests := []struct {
		name          string
		taskTags      []string
		ctxTags       []string
		wantRaw       float64
		wantDefaulted bool
	}{
		{name: "no tags anywhere", wantRaw: 50, wantDefaulted: true},
		{name: "task untagged", ctxTags: []string{"office"}, wantRaw: 50, wantDefaulted: true},
		{name: "context untagged", taskTags: []string{"office"}, wantRaw: 50, wantDefaulted: true},
		{name: "full overlap", taskTags: []string{"office", "calls"}, ctxTags: []string{"office", "calls", "am"}, wantRaw: 100},
		{name: "partial overlap", taskTags: []string{"office", "calls"}, ctxTags: []string{"office"}, wantRaw: 50},
		{name: "no overlap", taskTags: []string{"home"}, ctxTags: []string{"office"}, wantRaw: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate("ctx")
			c.Tags = tt.taskTags
			rctx := testContext()
			rctx.ContextTags = tt.ctxTags

			f := ex.Extract(c, rctx)[FactorContext]

			assert.InDelta(t, tt.wantRaw, f.Raw, 1e-9)
			assert.Equal(t, tt.wantDefaulted, f.Defaulted)
		})
	}
}

func TestMomentum(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	satisfied := domain.Completion{Project: "launch", Tags: []string{"writing"}, Satisfaction: 9}
	unsatisfied := domain.Completion{Project: "launch", Tags: []string{"writing"}, Satisfaction: 3}

	tests := []struct {
		name          string
		project       string
		tags          []string
		completions   []domain.Completion
		wantRaw       float64
		wantDefaulted bool
	}{
		{name: "no history", wantRaw: 50, wantDefaulted: true},
		{name: "shared project after satisfying win", project: "launch", completions: []domain.Completion{satisfied}, wantRaw: 70},
		{name: "shared tag after satisfying win", tags: []string{"writing"}, completions: []domain.Completion{satisfied}, wantRaw: 70},
		{name: "unsatisfying completions ignored", project: "launch", completions: []domain.Completion{unsatisfied}, wantRaw: 50},
		{name: "unrelated work", project: "other", completions: []domain.Completion{satisfied}, wantRaw: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate("m")
			c.Project = tt.project
			c.Tags = tt.tags
			ctx := testContext()
			ctx.RecentCompletions = tt.completions

			f := ex.Extract(c, ctx)[FactorMomentum]

			assert.InDelta(t, tt.wantRaw, f.Raw, 1e-9)
			assert.Equal(t, tt.wantDefaulted, f.Defaulted)
		})
	}
}

func TestDefaultedCount(t *testing.T) {
	ex := NewExtractor(DefaultConfig())

	// A fully specified candidate and context should leave nothing
	// defaulted.
	c := testCandidate("full")
	d := testNow.Add(24 * time.Hour)
	c.Deadline = &d
	c.EffortMinutes = 30
	c.Tags = []string{"office"}
	ctx := testContext()
	ctx.AvailableMinutes = 60
	ctx.ContextTags = []string{"office"}
	ctx.RecentCompletions = []domain.Completion{{Project: "x", Satisfaction: 8}}

	assert.Equal(t, 0, ex.Extract(c, ctx).DefaultedCount())

	// Strip everything optional: urgency, effort, context, and momentum
	// all fall back to defaults.
	bare := testCandidate("bare")
	assert.Equal(t, 4, ex.Extract(bare, testContext()).DefaultedCount())
}
