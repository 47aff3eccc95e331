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

	"github.com/studyquest/gamification/internal/model"
)

type achievement struct {
	AchievementID uuid.UUID `db:"achievement_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	Icon          string    `db:"icon"`
	Type          string    `db:"type"`
	Requirement   []byte    `db:"requirement"`
	Rarity        string    `db:"rarity"`
	CreatedAt     time.Time `db:"created_at"`
}

type userAchievement struct {
	UserID     uuid.UUID `db:"user_id"`
	UnlockedAt time.Time `db:"unlocked_at"`
	achievement
}

var achievementColumns = []string{
	"a.achievement_id",
	"a.title",
	"a.description",
	"a.icon",
	"a.type",
	"a.requirement",
	"a.rarity",
	"a.created_at",
}

func (a *achievement) toModel() *model.Achievement {
	return &model.Achievement{
		AchievementID:   a.AchievementID,
		Title:           a.Title,
		Description:     a.Description,
		Icon:            a.Icon,
		Type:            model.AchievementType(a.Type),
		RequirementData: a.Requirement,
		Rarity:          model.Rarity(a.Rarity),
		CreatedAt:       a.CreatedAt,
	}
}

func (r *Repository) ListAchievements(ctx context.Context) ([]*model.Achievement, error) {
	return r.listAchievements(ctx, nil)
}

func (r *Repository) ListAchievementsByType(ctx context.Context, achievementType model.AchievementType) ([]*model.Achievement, error) {
	return r.listAchievements(ctx, squirrel.Eq{"a.type": string(achievementType)})
}

func (r *Repository) listAchievements(ctx context.Context, where squirrel.Sqlizer) ([]*model.Achievement, error) {
	builder := squirrel.
		Select(achievementColumns...).
		From("achievements a").
		OrderBy("a.created_at", "a.achievement_id").
		PlaceholderFormat(squirrel.Dollar)
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build achievements query: %w", err)
	}

	var rows []achievement
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	achievements := make([]*model.Achievement, len(rows))
	for i := range rows {
		achievements[i] = rows[i].toModel()
	}

	return achievements, nil
}

func (r *Repository) GetAchievement(ctx context.Context, achievementID uuid.UUID) (*model.Achievement, error) {
	query, args, err := squirrel.
		Select(achievementColumns...).
		From("achievements a").
		Where(squirrel.Eq{"a.achievement_id": achievementID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build achievement query: %w", err)
	}

	var row achievement
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}

	return row.toModel(), nil
}

func userAchievementsQuery(where squirrel.Eq) squirrel.SelectBuilder {
	columns := append([]string{"ua.user_id", "ua.unlocked_at"}, achievementColumns...)
	return squirrel.
		Select(columns...).
		From("user_achievements ua").
		Join("achievements a ON a.achievement_id = ua.achievement_id").
		Where(where).
		OrderBy("ua.unlocked_at DESC", "a.achievement_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *Repository) GetUserAchievement(ctx context.Context, userID, achievementID uuid.UUID) (*model.UserAchievement, error) {
	query, args, err := userAchievementsQuery(squirrel.Eq{
		"ua.user_id":        userID,
		"ua.achievement_id": achievementID,
	}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user achievement query: %w", err)
	}

	var row userAchievement
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user achievement: %w", err)
	}

	return &model.UserAchievement{
		UserID:        row.UserID,
		AchievementID: row.AchievementID,
		UnlockedAt:    row.UnlockedAt,
		Achievement:   row.toModel(),
	}, nil
}

func (r *Repository) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error) {
	query, args, err := userAchievementsQuery(squirrel.Eq{"ua.user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user achievements query: %w", err)
	}

	var rows []userAchievement
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user achievements: %w", err)
	}

	out := make([]*model.UserAchievement, len(rows))
	for i := range rows {
		out[i] = &model.UserAchievement{
			UserID:        rows[i].UserID,
			AchievementID: rows[i].AchievementID,
			UnlockedAt:    rows[i].UnlockedAt,
			Achievement:   rows[i].toModel(),
		}
	}

	return out, nil
}

func insertUserAchievementQuery(ua *model.UserAchievement) squirrel.InsertBuilder {
	return squirrel.
		Insert("user_achievements").
		Columns("user_id", "achievement_id", "unlocked_at").
		Values(ua.UserID, ua.AchievementID, ua.UnlockedAt).
		Suffix("ON CONFLICT (user_id, achievement_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)
}

// CreateUserAchievement returns ErrAlreadyExists when the pair is already
// granted and ErrNotFound when the achievement no longer exists. Nothing is
// written in either case.
func (r *Repository) CreateUserAchievement(ctx context.Context, ua *model.UserAchievement, notification *model.Notification) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := insertUserAchievementQuery(ua).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user achievement insert query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			switch {
			case isForeignKeyViolation(err):
				return ErrNotFound
			case isUniqueViolation(err):
				return ErrAlreadyExists
			}
			return fmt.Errorf("failed to insert user achievement: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			return ErrAlreadyExists
		}

		if err := r.createNotificationWithTx(ctx, tx, notification); err != nil {
			return err
		}

		event, err := model.NewUserAchievementSyncEvent(ua)
		if err != nil {
			return fmt.Errorf("failed to build sync event: %w", err)
		}

		return r.createSyncEventWithTx(ctx, tx, event)
	})
}

func (r *Repository) createNotificationWithTx(ctx context.Context, tx *sqlx.Tx, n *model.Notification) error {
	query, args, err := squirrel.
		Insert("notifications").
		SetMap(map[string]interface{}{
			"notification_id": n.NotificationID,
			"user_id":         n.UserID,
			"title":           n.Title,
			"content":         n.Content,
			"created_at":      n.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build notification insert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}
