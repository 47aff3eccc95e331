package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyquest/gamification/internal/metrics"
	"github.com/studyquest/gamification/internal/model"
	"github.com/studyquest/gamification/internal/repository"
	"github.com/studyquest/gamification/pkg/logger"
)

const unlockNotificationTitle = "Achievement unlocked!"

type AchievementService struct {
	repo      AchievementRepository
	stats     StatsRepository
	evaluator *RequirementEvaluator
	now       func() time.Time
}

func NewAchievementService(repo AchievementRepository, stats StatsRepository, evaluator *RequirementEvaluator) *AchievementService {
	return &AchievementService{
		repo:      repo,
		stats:     stats,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// CheckAndGrantAchievements evaluates every achievement of eventType for
// the user and grants the satisfied ones. Achievements with a malformed
// requirement are skipped and reported together as a validation error
// once the rest of the batch is done; an achievement deleted while the
// batch runs is skipped silently.
func (s *AchievementService) CheckAndGrantAchievements(ctx context.Context, userID uuid.UUID, eventType model.AchievementType, eventData model.EventData) error {
	log := logger.Logger()

	if !eventType.Valid() {
		return &ValidationError{Field: "eventType", Reason: fmt.Sprintf("unknown achievement type %q", eventType)}
	}

	achievements, err := s.repo.ListAchievementsByType(ctx, eventType)
	if err != nil {
		return dependency("list achievements by type", err)
	}

	at := eventData.OccurredAt
	if at.IsZero() {
		at = s.now()
	}

	var invalid []error
	for _, a := range achievements {
		req, err := a.Requirement()
		if err != nil {
			verr := requirementValidationError(a, err)
			log.Warn("skipping achievement with invalid requirement",
				zap.String("achievement_id", a.AchievementID.String()),
				zap.Error(verr))
			invalid = append(invalid, verr)
			continue
		}

		completed, err := s.evaluator.IsCompleted(ctx, userID, req, at)
		if err != nil {
			return err
		}
		if !completed {
			continue
		}

		err = s.grant(ctx, userID, a)
		if err != nil {
			if errors.Is(err, ErrAchievementNotFound) {
				log.Info("achievement removed before grant",
					zap.String("user_id", userID.String()),
					zap.String("achievement_id", a.AchievementID.String()))
				continue
			}
			return err
		}
	}

	return errors.Join(invalid...)
}

func (s *AchievementService) grant(ctx context.Context, userID uuid.UUID, a *model.Achievement) error {
	log := logger.Logger()

	_, err := s.repo.GetUserAchievement(ctx, userID, a.AchievementID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return dependency("get user achievement", err)
	}

	now := s.now().UTC()
	ua := &model.UserAchievement{
		UserID:        userID,
		AchievementID: a.AchievementID,
		UnlockedAt:    now,
		Achievement:   a,
	}
	notification := &model.Notification{
		NotificationID: uuid.New(),
		UserID:         userID,
		Title:          unlockNotificationTitle,
		Content:        fmt.Sprintf("You unlocked the achievement %q.", a.Title),
		CreatedAt:      now,
	}

	err = s.repo.CreateUserAchievement(ctx, ua, notification)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			// a concurrent check granted it first
			log.Debug("achievement already granted",
				zap.String("user_id", userID.String()),
				zap.String("achievement_id", a.AchievementID.String()))
			return nil
		case errors.Is(err, repository.ErrNotFound):
			return ErrAchievementNotFound
		default:
			return dependency("create user achievement", err)
		}
	}

	metrics.AchievementGrants.WithLabelValues(string(a.Type)).Inc()
	log.Info("achievement granted",
		zap.String("user_id", userID.String()),
		zap.String("achievement_id", a.AchievementID.String()),
		zap.String("type", string(a.Type)))

	return nil
}

func (s *AchievementService) GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error) {
	achievements, err := s.repo.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, dependency("list user achievements", err)
	}
	return achievements, nil
}

// GetAchievementProgress reports a granted achievement as complete
// without re-evaluating it.
func (s *AchievementService) GetAchievementProgress(ctx context.Context, userID, achievementID uuid.UUID) (*model.AchievementProgress, error) {
	a, err := s.repo.GetAchievement(ctx, achievementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, dependency("get achievement", err)
	}

	req, err := a.Requirement()
	if err != nil {
		return nil, requirementValidationError(a, err)
	}

	_, err = s.repo.GetUserAchievement(ctx, userID, achievementID)
	switch {
	case err == nil:
		return &model.AchievementProgress{
			Achievement: a,
			Progress:    1,
			IsCompleted: true,
		}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, dependency("get user achievement", err)
	}

	ev, err := s.evaluator.Evaluate(ctx, userID, req, s.now())
	if err != nil {
		return nil, err
	}

	return &model.AchievementProgress{
		Achievement: a,
		Progress:    ev.Progress,
		IsCompleted: ev.Completed,
	}, nil
}

func (s *AchievementService) ListAchievements(ctx context.Context) ([]*model.Achievement, error) {
	achievements, err := s.repo.ListAchievements(ctx)
	if err != nil {
		return nil, dependency("list achievements", err)
	}
	return achievements, nil
}

// RecordStudyEvent appends the event and re-checks streak achievements.
// Malformed stored streak achievements are logged by the check and do not
// fail the call, since the event itself was valid and is already saved.
func (s *AchievementService) RecordStudyEvent(ctx context.Context, userID uuid.UUID, kind model.StudyEventKind, at time.Time) (*model.StudyEvent, error) {
	if kind == "" {
		kind = model.StudyEventSession
	}
	if at.IsZero() {
		at = s.now()
	}

	event := &model.StudyEvent{
		EventID:   uuid.New(),
		UserID:    userID,
		Kind:      kind,
		CreatedAt: at.UTC(),
	}

	if err := s.stats.CreateStudyEvent(ctx, event); err != nil {
		return nil, dependency("create study event", err)
	}

	err := s.CheckAndGrantAchievements(ctx, userID, model.AchievementStudyStreak, model.EventData{OccurredAt: at})
	if err != nil && !errors.Is(err, ErrValidation) {
		return event, err
	}

	return event, nil
}
