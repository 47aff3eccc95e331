package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyquest/gamification/internal/metrics"
	"github.com/studyquest/gamification/internal/model"
	"github.com/studyquest/gamification/internal/repository"
	"github.com/studyquest/gamification/pkg/logger"
)

const MaxRankingLimit = 100

type BossService struct {
	repo BossRepository
	now  func() time.Time
}

func NewBossService(repo BossRepository) *BossService {
	return &BossService{
		repo: repo,
		now:  time.Now,
	}
}

// EffectiveDamage is damage minus defense, never less than 1. Defense is
// non-negative, so the subtraction only runs when it cannot overflow.
func EffectiveDamage(damage, defense int) int {
	if defense < 0 {
		defense = 0
	}
	if damage <= defense {
		return 1
	}
	return damage - defense
}

// AttackBoss resolves one attack. The stored health is decremented by a
// single conditional update, so concurrent attackers never lose updates
// and only one of them observes the victory.
func (s *BossService) AttackBoss(ctx context.Context, userID, bossID uuid.UUID, damage int) (*model.AttackResult, error) {
	log := logger.Logger()

	boss, err := s.getBoss(ctx, bossID)
	if err != nil {
		metrics.BossAttacks.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	if boss.IsDefeated {
		metrics.BossAttacks.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrBossAlreadyDefeated
	}

	battle := &model.BossBattle{
		BattleID:        uuid.New(),
		BossID:          bossID,
		UserID:          userID,
		EffectiveDamage: EffectiveDamage(damage, boss.Defense),
		CreatedAt:       s.now().UTC(),
	}

	updated, err := s.repo.ApplyBossDamage(ctx, battle)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBossDefeated):
			metrics.BossAttacks.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, ErrBossAlreadyDefeated
		case errors.Is(err, repository.ErrNotFound):
			metrics.BossAttacks.WithLabelValues(metrics.OutcomeFailed).Inc()
			return nil, ErrBossNotFound
		default:
			metrics.BossAttacks.WithLabelValues(metrics.OutcomeFailed).Inc()
			return nil, dependency("apply boss damage", err)
		}
	}
	updated.Rewards = boss.Rewards

	result := &model.AttackResult{
		Battle: battle,
		Boss:   updated,
	}

	if !battle.IsVictory {
		metrics.BossAttacks.WithLabelValues(metrics.OutcomeHit).Inc()
		return result, nil
	}

	result.Rewards = boss.Rewards
	metrics.BossAttacks.WithLabelValues(metrics.OutcomeVictory).Inc()
	metrics.BossDefeats.Inc()
	log.Info("boss defeated",
		zap.String("boss_id", bossID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("effective_damage", battle.EffectiveDamage))

	return result, nil
}

func (s *BossService) GetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	return s.getBoss(ctx, bossID)
}

// GetTopDamage ranks users by total effective damage dealt to the boss,
// highest first, ties by user id. limit is capped at MaxRankingLimit.
func (s *BossService) GetTopDamage(ctx context.Context, bossID uuid.UUID, limit int) ([]*model.DamageRank, error) {
	if limit < 1 {
		return nil, &ValidationError{Field: "limit", Reason: "must be at least 1"}
	}
	if limit > MaxRankingLimit {
		limit = MaxRankingLimit
	}

	if _, err := s.getBoss(ctx, bossID); err != nil {
		return nil, err
	}

	ranks, err := s.repo.GetTopDamage(ctx, bossID, limit)
	if err != nil {
		return nil, dependency("get top damage", err)
	}

	return ranks, nil
}

// ResetBoss restores full health and clears the defeat. Battle history is
// kept.
func (s *BossService) ResetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	boss, err := s.getBoss(ctx, bossID)
	if err != nil {
		return nil, err
	}

	reset, err := s.repo.ResetBoss(ctx, bossID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBossNotFound
		}
		return nil, dependency("reset boss", err)
	}
	reset.Rewards = boss.Rewards

	logger.Logger().Info("boss reset", zap.String("boss_id", bossID.String()))

	return reset, nil
}

func (s *BossService) getBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	boss, err := s.repo.GetBoss(ctx, bossID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBossNotFound
		}
		return nil, dependency("get boss", err)
	}
	return boss, nil
}
