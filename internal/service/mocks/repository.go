package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/studyquest/gamification/internal/model"
)

type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) ListAchievements(ctx context.Context) ([]*model.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) ListAchievementsByType(ctx context.Context, achievementType model.AchievementType) ([]*model.Achievement, error) {
	args := m.Called(ctx, achievementType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) GetAchievement(ctx context.Context, achievementID uuid.UUID) (*model.Achievement, error) {
	args := m.Called(ctx, achievementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) GetUserAchievement(ctx context.Context, userID, achievementID uuid.UUID) (*model.UserAchievement, error) {
	args := m.Called(ctx, userID, achievementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserAchievement), args.Error(1)
}

func (m *MockAchievementRepository) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserAchievement), args.Error(1)
}

func (m *MockAchievementRepository) CreateUserAchievement(ctx context.Context, ua *model.UserAchievement, notification *model.Notification) error {
	args := m.Called(ctx, ua, notification)
	return args.Error(0)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CreateStudyEvent(ctx context.Context, event *model.StudyEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatsRepository) GetStudyEventTimes(ctx context.Context, userID uuid.UUID, kind model.StudyEventKind, since time.Time) ([]time.Time, error) {
	args := m.Called(ctx, userID, kind, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockStatsRepository) CountCompletedCourses(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) GetAverageQuizScore(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStatsRepository) CountSocial(ctx context.Context, userID uuid.UUID, action model.SocialAction) (int, error) {
	args := m.Called(ctx, userID, action)
	return args.Int(0), args.Error(1)
}

type MockBossRepository struct {
	mock.Mock
}

func (m *MockBossRepository) GetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	args := m.Called(ctx, bossID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Boss), args.Error(1)
}

func (m *MockBossRepository) ApplyBossDamage(ctx context.Context, battle *model.BossBattle) (*model.Boss, error) {
	args := m.Called(ctx, battle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Boss), args.Error(1)
}

func (m *MockBossRepository) ResetBoss(ctx context.Context, bossID uuid.UUID, at time.Time) (*model.Boss, error) {
	args := m.Called(ctx, bossID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Boss), args.Error(1)
}

func (m *MockBossRepository) GetTopDamage(ctx context.Context, bossID uuid.UUID, limit int) ([]*model.DamageRank, error) {
	args := m.Called(ctx, bossID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DamageRank), args.Error(1)
}

type MockSyncRepository struct {
	mock.Mock
}

func (m *MockSyncRepository) GetPendingSyncEvents(ctx context.Context, limit, maxAttempts int) ([]*model.SyncEvent, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SyncEvent), args.Error(1)
}

func (m *MockSyncRepository) MarkSyncEventProcessed(ctx context.Context, eventID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, eventID, at)
	return args.Error(0)
}

func (m *MockSyncRepository) MarkSyncEventFailed(ctx context.Context, eventID uuid.UUID, reason string) error {
	args := m.Called(ctx, eventID, reason)
	return args.Error(0)
}

type MockDocumentCache struct {
	mock.Mock
}

func (m *MockDocumentCache) UpdateDocument(ctx context.Context, key string, payload []byte) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}
