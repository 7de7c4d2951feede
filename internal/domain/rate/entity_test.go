package rate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCommissionRate_EffectiveOn(t *testing.T) {
	r := CommissionRate{
		IsActive:       true,
		EffectiveStart: date(2026, 1, 1),
		EffectiveEnd:   timePtr(date(2026, 6, 30)),
	}

	assert.True(t, r.EffectiveOn(date(2026, 1, 1)))
	assert.True(t, r.EffectiveOn(date(2026, 6, 30)))
	assert.True(t, r.EffectiveOn(date(2026, 3, 15)))
	assert.False(t, r.EffectiveOn(date(2025, 12, 31)))
	assert.False(t, r.EffectiveOn(date(2026, 7, 1)))
}

func TestCommissionRate_EffectiveOn_OpenEnded(t *testing.T) {
	r := CommissionRate{
		IsActive:       true,
		EffectiveStart: date(2026, 1, 1),
	}

	assert.True(t, r.EffectiveOn(date(2030, 1, 1)))
}

func TestCommissionRate_Matches_Wildcards(t *testing.T) {
	wildcard := CommissionRate{
		IsActive:       true,
		EffectiveStart: date(2026, 1, 1),
	}
	q := Query{
		RoleID:      int64Ptr(7),
		InstallerID: int64Ptr(12),
		StateCode:   strPtr("UT"),
		OnDate:      date(2026, 2, 1),
	}

	assert.True(t, wildcard.Matches(q))
	assert.Equal(t, 0, wildcard.Specificity(q))
}

func TestCommissionRate_Matches_PinnedFieldMustEqual(t *testing.T) {
	pinned := CommissionRate{
		IsActive:       true,
		EffectiveStart: date(2026, 1, 1),
		StateCode:      strPtr("TX"),
	}

	q := Query{StateCode: strPtr("UT"), OnDate: date(2026, 2, 1)}
	assert.False(t, pinned.Matches(q))

	q.StateCode = strPtr("TX")
	assert.True(t, pinned.Matches(q))
	assert.Equal(t, 1, pinned.Specificity(q))
}

func TestCommissionRate_Matches_PinnedFieldAgainstNullQuery(t *testing.T) {
	pinned := CommissionRate{
		IsActive:       true,
		EffectiveStart: date(2026, 1, 1),
		RoleID:         int64Ptr(3),
	}

	assert.False(t, pinned.Matches(Query{OnDate: date(2026, 2, 1)}))
}

func TestCommissionRate_Matches_InactiveNeverMatches(t *testing.T) {
	r := CommissionRate{
		IsActive:       false,
		EffectiveStart: date(2026, 1, 1),
	}

	assert.False(t, r.Matches(Query{OnDate: date(2026, 2, 1)}))
}

func TestBestMatch_HighestSpecificityWins(t *testing.T) {
	q := Query{
		RoleID:      int64Ptr(7),
		InstallerID: int64Ptr(12),
		StateCode:   strPtr("UT"),
		OnDate:      date(2026, 2, 1),
	}

	wildcard := CommissionRate{ID: 1, IsActive: true, EffectiveStart: date(2026, 1, 1)}
	oneField := CommissionRate{ID: 2, IsActive: true, EffectiveStart: date(2026, 1, 1), RoleID: int64Ptr(7)}
	twoFields := CommissionRate{ID: 3, IsActive: true, EffectiveStart: date(2026, 1, 1), RoleID: int64Ptr(7), StateCode: strPtr("UT")}

	best, found := BestMatch([]CommissionRate{wildcard, oneField, twoFields}, q)
	require.True(t, found)
	assert.Equal(t, int64(3), best.ID)

	// Result does not depend on candidate order.
	best, found = BestMatch([]CommissionRate{twoFields, wildcard, oneField}, q)
	require.True(t, found)
	assert.Equal(t, int64(3), best.ID)
}

func TestBestMatch_TieBreaksOnEffectiveStartThenID(t *testing.T) {
	q := Query{RoleID: int64Ptr(7), OnDate: date(2026, 6, 1)}

	older := CommissionRate{ID: 1, IsActive: true, EffectiveStart: date(2026, 1, 1), RoleID: int64Ptr(7)}
	newer := CommissionRate{ID: 2, IsActive: true, EffectiveStart: date(2026, 3, 1), RoleID: int64Ptr(7)}

	best, found := BestMatch([]CommissionRate{older, newer}, q)
	require.True(t, found)
	assert.Equal(t, int64(2), best.ID)

	// Same start date falls back to the lowest id.
	sameStartA := CommissionRate{ID: 5, IsActive: true, EffectiveStart: date(2026, 1, 1), RoleID: int64Ptr(7)}
	sameStartB := CommissionRate{ID: 4, IsActive: true, EffectiveStart: date(2026, 1, 1), RoleID: int64Ptr(7)}

	best, found = BestMatch([]CommissionRate{sameStartA, sameStartB}, q)
	require.True(t, found)
	assert.Equal(t, int64(4), best.ID)
}

func TestBestMatch_NoCandidates(t *testing.T) {
	expired := CommissionRate{
		ID:             1,
		IsActive:       true,
		EffectiveStart: date(2025, 1, 1),
		EffectiveEnd:   timePtr(date(2025, 12, 31)),
	}

	_, found := BestMatch([]CommissionRate{expired}, Query{OnDate: date(2026, 2, 1)})
	assert.False(t, found)
}

func TestCommissionRate_MilestonePair(t *testing.T) {
	pct1 := decimal.NewFromInt(10)
	flat2 := decimal.NewFromInt(250)
	r := CommissionRate{
		PercentMp1: &pct1,
		FlatMp2:    &flat2,
	}

	percent, flat := r.MilestonePair(1)
	assert.True(t, percent.Equal(decimal.NewFromInt(10)))
	assert.True(t, flat.IsZero())

	percent, flat = r.MilestonePair(2)
	assert.True(t, percent.IsZero())
	assert.True(t, flat.Equal(decimal.NewFromInt(250)))
}
