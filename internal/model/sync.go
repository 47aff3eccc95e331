package model

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SyncEvent is an outbox row: a document to push to the external cache
// after the transaction that produced it has committed.
type SyncEvent struct {
	EventID     uuid.UUID
	DocumentKey string
	Payload     []byte
	Attempts    int
	LastError   *string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type achievementDocument struct {
	UserID        uuid.UUID       `json:"user_id"`
	AchievementID uuid.UUID       `json:"achievement_id"`
	Title         string          `json:"title,omitempty"`
	Type          AchievementType `json:"type,omitempty"`
	Rarity        Rarity          `json:"rarity,omitempty"`
	UnlockedAt    time.Time       `json:"unlocked_at"`
}

type bossDocument struct {
	BossID     uuid.UUID `json:"boss_id"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	Health     int       `json:"health"`
	MaxHealth  int       `json:"max_health"`
	IsDefeated bool      `json:"is_defeated"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func UserAchievementDocumentKey(userID, achievementID uuid.UUID) string {
	return fmt.Sprintf("users/%s/achievements/%s", userID, achievementID)
}

func BossDocumentKey(bossID uuid.UUID) string {
	return fmt.Sprintf("bosses/%s", bossID)
}

func NewUserAchievementSyncEvent(ua *UserAchievement) (*SyncEvent, error) {
	doc := achievementDocument{
		UserID:        ua.UserID,
		AchievementID: ua.AchievementID,
		UnlockedAt:    ua.UnlockedAt,
	}
	if ua.Achievement != nil {
		doc.Title = ua.Achievement.Title
		doc.Type = ua.Achievement.Type
		doc.Rarity = ua.Achievement.Rarity
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return &SyncEvent{
		EventID:     uuid.New(),
		DocumentKey: UserAchievementDocumentKey(ua.UserID, ua.AchievementID),
		Payload:     payload,
		CreatedAt:   ua.UnlockedAt,
	}, nil
}

func NewBossSyncEvent(b *Boss, at time.Time) (*SyncEvent, error) {
	payload, err := json.Marshal(bossDocument{
		BossID:     b.BossID,
		Name:       b.Name,
		Level:      b.Level,
		Health:     b.Health,
		MaxHealth:  b.MaxHealth,
		IsDefeated: b.IsDefeated,
		UpdatedAt:  at,
	})
	if err != nil {
		return nil, err
	}

	return &SyncEvent{
		EventID:     uuid.New(),
		DocumentKey: BossDocumentKey(b.BossID),
		Payload:     payload,
		CreatedAt:   at,
	}, nil
}
