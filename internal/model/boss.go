package model

import (
	"time"

	"github.com/google/uuid"
)

// Boss health stays within [0, MaxHealth] and IsDefeated holds exactly
// when Health is 0. Defeat is terminal until an administrative reset.
type Boss struct {
	BossID     uuid.UUID
	Name       string
	Level      int
	Health     int
	MaxHealth  int
	Attack     int
	Defense    int
	Experience int
	IsDefeated bool
	Rewards    []BossReward
}

type BossReward struct {
	Type    string
	Payload []byte
}

// BossBattle is one accepted attack. Rejected attacks leave no record.
type BossBattle struct {
	BattleID        uuid.UUID
	BossID          uuid.UUID
	UserID          uuid.UUID
	EffectiveDamage int
	IsVictory       bool
	CreatedAt       time.Time
}

type AttackResult struct {
	Battle  *BossBattle
	Boss    *Boss
	Rewards []BossReward
}

type DamageRank struct {
	UserID      uuid.UUID
	TotalDamage int64
}
