package model

import (
	"time"

	"github.com/google/uuid"
)

type AchievementType string

const (
	AchievementStudyStreak      AchievementType = "STUDY_STREAK"
	AchievementCourseCompletion AchievementType = "COURSE_COMPLETION"
	AchievementQuizMaster       AchievementType = "QUIZ_MASTER"
	AchievementSocial           AchievementType = "SOCIAL"
)

func (t AchievementType) Valid() bool {
	switch t {
	case AchievementStudyStreak, AchievementCourseCompletion, AchievementQuizMaster, AchievementSocial:
		return true
	}
	return false
}

type Rarity string

const (
	RarityCommon    Rarity = "comum"
	RarityRare      Rarity = "raro"
	RarityEpic      Rarity = "épico"
	RarityLegendary Rarity = "lendário"
)

// Achievement is immutable once created. RequirementData holds the raw
// stored payload; it is decoded with ParseRequirement against Type.
type Achievement struct {
	AchievementID   uuid.UUID
	Title           string
	Description     string
	Icon            string
	Type            AchievementType
	RequirementData []byte
	Rarity          Rarity
	CreatedAt       time.Time
}

func (a *Achievement) Requirement() (Requirement, error) {
	return ParseRequirement(a.Type, a.RequirementData)
}

type UserAchievement struct {
	UserID        uuid.UUID
	AchievementID uuid.UUID
	UnlockedAt    time.Time
	Achievement   *Achievement
}

type AchievementProgress struct {
	Achievement *Achievement
	Progress    float64
	IsCompleted bool
}

type Notification struct {
	NotificationID uuid.UUID
	UserID         uuid.UUID
	Title          string
	Content        string
	CreatedAt      time.Time
}
