package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/studyquest/gamification/internal/model"
)

type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) CheckAndGrantAchievements(ctx context.Context, userID uuid.UUID, eventType model.AchievementType, eventData model.EventData) error {
	args := m.Called(ctx, userID, eventType, eventData)
	return args.Error(0)
}

func (m *MockAchievementService) GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserAchievement), args.Error(1)
}

func (m *MockAchievementService) GetAchievementProgress(ctx context.Context, userID, achievementID uuid.UUID) (*model.AchievementProgress, error) {
	args := m.Called(ctx, userID, achievementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AchievementProgress), args.Error(1)
}

func (m *MockAchievementService) ListAchievements(ctx context.Context) ([]*model.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Achievement), args.Error(1)
}

func (m *MockAchievementService) RecordStudyEvent(ctx context.Context, userID uuid.UUID, kind model.StudyEventKind, at time.Time) (*model.StudyEvent, error) {
	args := m.Called(ctx, userID, kind, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudyEvent), args.Error(1)
}

type MockBossService struct {
	mock.Mock
}

func (m *MockBossService) AttackBoss(ctx context.Context, userID, bossID uuid.UUID, damage int) (*model.AttackResult, error) {
	args := m.Called(ctx, userID, bossID, damage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttackResult), args.Error(1)
}

func (m *MockBossService) GetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	args := m.Called(ctx, bossID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Boss), args.Error(1)
}

func (m *MockBossService) GetTopDamage(ctx context.Context, bossID uuid.UUID, limit int) ([]*model.DamageRank, error) {
	args := m.Called(ctx, bossID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DamageRank), args.Error(1)
}

func (m *MockBossService) ResetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	args := m.Called(ctx, bossID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Boss), args.Error(1)
}
