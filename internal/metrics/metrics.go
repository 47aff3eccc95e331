package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BossAttacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boss_attacks_total",
			Help: "Total number of boss attack attempts by outcome",
		},
		[]string{"outcome"},
	)
	BossDefeats = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boss_defeats_total",
			Help: "Total number of bosses brought to zero health",
		},
	)
	AchievementGrants = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievement_grants_total",
			Help: "Total number of achievements granted by type",
		},
		[]string{"type"},
	)
	CacheSync = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_sync_total",
			Help: "Total number of document cache sync attempts by result",
		},
		[]string{"result"},
	)
)

const (
	OutcomeHit      = "hit"
	OutcomeVictory  = "victory"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"

	ResultSynced     = "synced"
	ResultFailed     = "failed"
	ResultSuperseded = "superseded"
)

// Register adds the collectors to reg. Call once from main.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(BossAttacks, BossDefeats, AchievementGrants, CacheSync)
}
