package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/studyquest/gamification/internal/model"
)

type boss struct {
	BossID     uuid.UUID `db:"boss_id"`
	Name       string    `db:"name"`
	Level      int       `db:"level"`
	Health     int       `db:"health"`
	MaxHealth  int       `db:"max_health"`
	Attack     int       `db:"attack"`
	Defense    int       `db:"defense"`
	Experience int       `db:"experience"`
	IsDefeated bool      `db:"is_defeated"`
}

type bossWithRewards struct {
	boss
	RewardTypes    pq.StringArray `db:"reward_types"`
	RewardPayloads pq.StringArray `db:"reward_payloads"`
}

type damageRank struct {
	UserID      uuid.UUID `db:"user_id"`
	TotalDamage int64     `db:"total_damage"`
}

var bossColumns = []string{
	"boss_id",
	"name",
	"level",
	"health",
	"max_health",
	"attack",
	"defense",
	"experience",
	"is_defeated",
}

const bossReturning = "RETURNING boss_id, name, level, health, max_health, attack, defense, experience, is_defeated"

func (b *boss) toModel() *model.Boss {
	return &model.Boss{
		BossID:     b.BossID,
		Name:       b.Name,
		Level:      b.Level,
		Health:     b.Health,
		MaxHealth:  b.MaxHealth,
		Attack:     b.Attack,
		Defense:    b.Defense,
		Experience: b.Experience,
		IsDefeated: b.IsDefeated,
	}
}

func (r *Repository) GetBoss(ctx context.Context, bossID uuid.UUID) (*model.Boss, error) {
	columns := make([]string, 0, len(bossColumns)+2)
	for _, c := range bossColumns {
		columns = append(columns, "b."+c)
	}
	columns = append(columns,
		"array_agg(br.reward_type ORDER BY br.position) FILTER (WHERE br.reward_type IS NOT NULL) as reward_types",
		"array_agg(br.payload::text ORDER BY br.position) FILTER (WHERE br.reward_type IS NOT NULL) as reward_payloads",
	)

	query, args, err := squirrel.
		Select(columns...).
		From("bosses b").
		LeftJoin("boss_rewards br ON br.boss_id = b.boss_id").
		Where(squirrel.Eq{"b.boss_id": bossID}).
		GroupBy("b.boss_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build boss query: %w", err)
	}

	var row bossWithRewards
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get boss: %w", err)
	}

	b := row.toModel()
	b.Rewards = make([]model.BossReward, len(row.RewardTypes))
	for i := range row.RewardTypes {
		reward := model.BossReward{Type: row.RewardTypes[i]}
		if i < len(row.RewardPayloads) {
			reward.Payload = []byte(row.RewardPayloads[i])
		}
		b.Rewards[i] = reward
	}

	return b, nil
}

// applyDamageQuery computes the new health from the stored value inside
// the statement. The is_defeated guard makes the defeating update the only
// one that can return is_defeated = true.
func applyDamageQuery(bossID uuid.UUID, effectiveDamage int, at time.Time) squirrel.UpdateBuilder {
	return squirrel.
		Update("bosses").
		Set("health", squirrel.Expr("GREATEST(0, health - ?::bigint)", effectiveDamage)).
		Set("is_defeated", squirrel.Expr("(health - ?::bigint) <= 0", effectiveDamage)).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"boss_id":     bossID,
			"is_defeated": false,
		}).
		Suffix(bossReturning).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *Repository) ApplyBossDamage(ctx context.Context, battle *model.BossBattle) (*model.Boss, error) {
	var updated *model.Boss

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := applyDamageQuery(battle.BossID, battle.EffectiveDamage, battle.CreatedAt).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build boss damage query: %w", err)
		}

		var row boss
		err = tx.GetContext(ctx, &row, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.bossUpdateMissWithTx(ctx, tx, battle.BossID)
			}
			return fmt.Errorf("failed to apply boss damage: %w", err)
		}

		battle.IsVictory = row.IsDefeated
		updated = row.toModel()

		battleQuery, battleArgs, err := squirrel.
			Insert("boss_battles").
			SetMap(map[string]interface{}{
				"battle_id":        battle.BattleID,
				"boss_id":          battle.BossID,
				"user_id":          battle.UserID,
				"effective_damage": battle.EffectiveDamage,
				"is_victory":       battle.IsVictory,
				"created_at":       battle.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build boss battle insert query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, battleQuery, battleArgs...); err != nil {
			return fmt.Errorf("failed to insert boss battle: %w", err)
		}

		event, err := model.NewBossSyncEvent(updated, battle.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to build sync event: %w", err)
		}

		return r.createSyncEventWithTx(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// bossUpdateMissWithTx explains why the conditional update matched no row.
func (r *Repository) bossUpdateMissWithTx(ctx context.Context, tx *sqlx.Tx, bossID uuid.UUID) error {
	query, args, err := squirrel.
		Select("is_defeated").
		From("bosses").
		Where(squirrel.Eq{"boss_id": bossID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build boss check query: %w", err)
	}

	var defeated bool
	err = tx.GetContext(ctx, &defeated, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check boss state: %w", err)
	}

	if defeated {
		return ErrBossDefeated
	}
	return fmt.Errorf("boss %s was not updated", bossID)
}

func (r *Repository) ResetBoss(ctx context.Context, bossID uuid.UUID, at time.Time) (*model.Boss, error) {
	var reset *model.Boss

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Update("bosses").
			Set("health", squirrel.Expr("max_health")).
			Set("is_defeated", false).
			Set("updated_at", at).
			Where(squirrel.Eq{"boss_id": bossID}).
			Suffix(bossReturning).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build boss reset query: %w", err)
		}

		var row boss
		err = tx.GetContext(ctx, &row, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to reset boss: %w", err)
		}
		reset = row.toModel()

		event, err := model.NewBossSyncEvent(reset, at)
		if err != nil {
			return fmt.Errorf("failed to build sync event: %w", err)
		}

		return r.createSyncEventWithTx(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return reset, nil
}

func topDamageQuery(bossID uuid.UUID, limit int) squirrel.SelectBuilder {
	return squirrel.
		Select("user_id", "SUM(effective_damage)::bigint AS total_damage").
		From("boss_battles").
		Where(squirrel.Eq{"boss_id": bossID}).
		GroupBy("user_id").
		OrderBy("total_damage DESC", "user_id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *Repository) GetTopDamage(ctx context.Context, bossID uuid.UUID, limit int) ([]*model.DamageRank, error) {
	query, args, err := topDamageQuery(bossID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top damage query: %w", err)
	}

	var rows []damageRank
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get top damage: %w", err)
	}

	ranks := make([]*model.DamageRank, len(rows))
	for i, row := range rows {
		ranks[i] = &model.DamageRank{
			UserID:      row.UserID,
			TotalDamage: row.TotalDamage,
		}
	}

	return ranks, nil
}
