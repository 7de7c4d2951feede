package rate

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// CommissionRate - per-industry rate record scoped by optional role,
// installer, and state, with independent percent/flat pairs per milestone.
type CommissionRate struct {
	ID             int64
	Industry       industry.Industry
	UserID         int64
	RoleID         *int64
	InstallerID    *int64
	StateCode      *string
	PercentMp1     *decimal.Decimal
	FlatMp1        *decimal.Decimal
	PercentMp2     *decimal.Decimal
	FlatMp2        *decimal.Decimal
	IsActive       bool
	EffectiveStart time.Time
	EffectiveEnd   *time.Time
	CreatedAt      time.Time
	CreatedBy      *int64
	UpdatedAt      time.Time
	UpdatedBy      *int64
}

// Query describes the lookup context a rate is resolved against.
type Query struct {
	RoleID      *int64
	InstallerID *int64
	StateCode   *string
	OnDate      time.Time
}

// EffectiveOn reports whether the rate's date window covers the given date.
func (r CommissionRate) EffectiveOn(on time.Time) bool {
	if r.EffectiveStart.After(on) {
		return false
	}
	if r.EffectiveEnd != nil && r.EffectiveEnd.Before(on) {
		return false
	}
	return true
}

// Matches reports whether the rate is a candidate for the query: active,
// effective on the query date, and every non-null scoping field equal to the
// query value. Null scoping fields are wildcards.
func (r CommissionRate) Matches(q Query) bool {
	if !r.IsActive || !r.EffectiveOn(q.OnDate) {
		return false
	}
	if r.RoleID != nil && (q.RoleID == nil || *r.RoleID != *q.RoleID) {
		return false
	}
	if r.InstallerID != nil && (q.InstallerID == nil || *r.InstallerID != *q.InstallerID) {
		return false
	}
	if r.StateCode != nil && (q.StateCode == nil || *r.StateCode != *q.StateCode) {
		return false
	}
	return true
}

// Specificity counts the scoping fields pinned to the query value. A fully
// wildcarded rate scores 0, a rate matching role+installer+state scores 3.
func (r CommissionRate) Specificity(q Query) int {
	score := 0
	if r.RoleID != nil && q.RoleID != nil && *r.RoleID == *q.RoleID {
		score++
	}
	if r.InstallerID != nil && q.InstallerID != nil && *r.InstallerID == *q.InstallerID {
		score++
	}
	if r.StateCode != nil && q.StateCode != nil && *r.StateCode == *q.StateCode {
		score++
	}
	return score
}

// BestMatch picks the winning rate among candidates for the query.
// Ranking: highest specificity, then most recent EffectiveStart, then lowest
// rate id. The result is independent of candidate order.
func BestMatch(candidates []CommissionRate, q Query) (CommissionRate, bool) {
	var best CommissionRate
	bestScore := -1
	found := false

	for _, c := range candidates {
		if !c.Matches(q) {
			continue
		}
		score := c.Specificity(q)
		if !found || score > bestScore || (score == bestScore && beats(c, best)) {
			best = c
			bestScore = score
			found = true
		}
	}

	return best, found
}

func beats(a, b CommissionRate) bool {
	if !a.EffectiveStart.Equal(b.EffectiveStart) {
		return a.EffectiveStart.After(b.EffectiveStart)
	}
	return a.ID < b.ID
}

// MilestonePair returns the percent/flat pair for the milestone, with missing
// values as zero.
func (r CommissionRate) MilestonePair(milestone int) (percent, flat decimal.Decimal) {
	var p, f *decimal.Decimal
	if milestone == 1 {
		p, f = r.PercentMp1, r.FlatMp1
	} else {
		p, f = r.PercentMp2, r.FlatMp2
	}
	if p != nil {
		percent = *p
	}
	if f != nil {
		flat = *f
	}
	return percent, flat
}
