package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studyquest/gamification/internal/model"
)

type AchievementServiceI interface {
	CheckAndGrantAchievements(ctx context.Context, userID uuid.UUID, eventType model.AchievementType, eventData model.EventData) error
	GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error)
	GetAchievementProgress(ctx context.Context, userID, achievementID uuid.UUID) (*model.AchievementProgress, error)
	ListAchievements(ctx context.Context) ([]*model.Achievement, error)
	RecordStudyEvent(ctx context.Context, userID uuid.UUID, kind model.StudyEventKind, at time.Time) (*model.StudyEvent, error)
}

type BossServiceI interface {
	AttackBoss(ctx context.Context, userID, bossID uuid.UUID, damage int) (*model.AttackResult, error)
	GetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error)
	GetTopDamage(ctx context.Context, bossID uuid.UUID, limit int) ([]*model.DamageRank, error)
	ResetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error)
}

type AchievementRepository interface {
	ListAchievements(ctx context.Context) ([]*model.Achievement, error)
	ListAchievementsByType(ctx context.Context, achievementType model.AchievementType) ([]*model.Achievement, error)
	GetAchievement(ctx context.Context, achievementID uuid.UUID) (*model.Achievement, error)
	GetUserAchievement(ctx context.Context, userID, achievementID uuid.UUID) (*model.UserAchievement, error)
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error)
	// CreateUserAchievement stores the grant, its notification and the
	// cache outbox entry in one transaction.
	CreateUserAchievement(ctx context.Context, ua *model.UserAchievement, notification *model.Notification) error
}

// StatsRepository exposes the event source and the aggregate counters
// requirements are evaluated against.
type StatsRepository interface {
	CreateStudyEvent(ctx context.Context, event *model.StudyEvent) error
	GetStudyEventTimes(ctx context.Context, userID uuid.UUID, kind model.StudyEventKind, since time.Time) ([]time.Time, error)
	CountCompletedCourses(ctx context.Context, userID uuid.UUID) (int, error)
	GetAverageQuizScore(ctx context.Context, userID uuid.UUID) (float64, error)
	CountSocial(ctx context.Context, userID uuid.UUID, action model.SocialAction) (int, error)
}

type BossRepository interface {
	GetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error)
	// ApplyBossDamage subtracts battle.EffectiveDamage from the stored
	// health and appends the battle in one transaction. It sets
	// battle.IsVictory and returns the boss as updated.
	ApplyBossDamage(ctx context.Context, battle *model.BossBattle) (*model.Boss, error)
	ResetBoss(ctx context.Context, bossID uuid.UUID, at time.Time) (*model.Boss, error)
	GetTopDamage(ctx context.Context, bossID uuid.UUID, limit int) ([]*model.DamageRank, error)
}

type SyncRepository interface {
	GetPendingSyncEvents(ctx context.Context, limit, maxAttempts int) ([]*model.SyncEvent, error)
	MarkSyncEventProcessed(ctx context.Context, eventID uuid.UUID, at time.Time) error
	MarkSyncEventFailed(ctx context.Context, eventID uuid.UUID, reason string) error
}

type DocumentCache interface {
	UpdateDocument(ctx context.Context, key string, payload []byte) error
}
