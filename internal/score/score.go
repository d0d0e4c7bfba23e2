// Package score computes the composite safety score shown in the dashboard.
package score

import (
	"math"

	"github.com/yourorg/stableyield-sentinel/internal/model"
)

// Score weights. Audits contribute up to 50 points, deep liquidity up to 60,
// excessive yield subtracts up to 40.
const (
	auditBonus     = 100.0
	auditWeight    = 0.5
	tvlScale       = 15.0
	tvlCap         = 60.0
	apyPenaltyRate = 1.5
	apyPenaltyCap  = 40.0
)

// Safety computes the pool's composite safety score. Pure and deterministic;
// recomputed on every sort.
//
// The TVL factor is log-scaled against a $1M baseline and capped at 60 with
// no lower clamp, so pools under $1M go negative and sink fast. The APY
// penalty is capped at 40, also without a lower clamp, so a negative APY
// reduces the penalty below zero and raises the score.
func Safety(p model.Pool) float64 {
	bonus := 0.0
	if p.IsAudit {
		bonus = auditBonus
	}
	tvlFactor := math.Min(math.Log10(p.TVLUsd/1_000_000)*tvlScale, tvlCap)
	apyPenalty := math.Min(p.APY*apyPenaltyRate, apyPenaltyCap)
	return bonus*auditWeight + tvlFactor - apyPenalty
}
