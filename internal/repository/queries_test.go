package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyquest/gamification/internal/model"
)

func TestApplyDamageQuery(t *testing.T) {
	bossID := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := applyDamageQuery(bossID, 50, at).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE bosses SET health = GREATEST(0, health - $1::bigint), is_defeated = (health - $2::bigint) <= 0, updated_at = $3 "+
			"WHERE boss_id = $4 AND is_defeated = $5 "+
			"RETURNING boss_id, name, level, health, max_health, attack, defense, experience, is_defeated",
		query)
	assert.Equal(t, []interface{}{50, 50, at, bossID, false}, args)
}

func TestTopDamageQuery(t *testing.T) {
	bossID := uuid.New()

	query, args, err := topDamageQuery(bossID, 10).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT user_id, SUM(effective_damage)::bigint AS total_damage FROM boss_battles "+
			"WHERE boss_id = $1 GROUP BY user_id ORDER BY total_damage DESC, user_id ASC LIMIT 10",
		query)
	assert.Equal(t, []interface{}{bossID}, args)
}

func TestInsertUserAchievementQuery(t *testing.T) {
	ua := &model.UserAchievement{
		UserID:        uuid.New(),
		AchievementID: uuid.New(),
		UnlockedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	query, args, err := insertUserAchievementQuery(ua).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO user_achievements (user_id,achievement_id,unlocked_at) VALUES ($1,$2,$3) "+
			"ON CONFLICT (user_id, achievement_id) DO NOTHING",
		query)
	assert.Equal(t, []interface{}{ua.UserID, ua.AchievementID, ua.UnlockedAt}, args)
}

func TestPendingSyncEventsQuery(t *testing.T) {
	query, args, err := pendingSyncEventsQuery(50, 10).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT event_id, document_key, payload, attempts, last_error, created_at, processed_at FROM sync_outbox "+
			"WHERE processed_at IS NULL AND attempts < $1 ORDER BY created_at, event_id LIMIT 50",
		query)
	assert.Equal(t, []interface{}{10}, args)
}

func TestSocialCountQuery(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		action   model.SocialAction
		expected string
	}{
		{model.SocialFollowers, "SELECT COUNT(*) FROM follows WHERE following_id = $1"},
		{model.SocialFollowing, "SELECT COUNT(*) FROM follows WHERE follower_id = $1"},
		{model.SocialComments, "SELECT COUNT(*) FROM comments WHERE user_id = $1"},
		{model.SocialLikes, "SELECT COUNT(*) FROM likes WHERE user_id = $1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			builder, err := socialCountQuery(userID, tt.action)
			require.NoError(t, err)

			query, args, err := builder.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
			assert.Equal(t, []interface{}{userID}, args)
		})
	}

	_, err := socialCountQuery(userID, model.SocialAction("SHARES"))
	assert.Error(t, err)
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})
	foreignKey := &pgconn.PgError{Code: pgForeignKeyViolation}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))
	assert.True(t, isForeignKeyViolation(foreignKey))
	assert.False(t, isUniqueViolation(assert.AnError))
}

func TestConfig_GetDatabaseURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "app", Password: "secret", Name: "gamification"}
	assert.Equal(t, "postgres://app:secret@db:5432/gamification?sslmode=disable", cfg.GetDatabaseURL())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://app:secret@db:5432/gamification?sslmode=require", cfg.GetDatabaseURL())
}
