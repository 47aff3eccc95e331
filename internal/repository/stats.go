package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/studyquest/gamification/internal/model"
)

func (r *Repository) CreateStudyEvent(ctx context.Context, event *model.StudyEvent) error {
	query, args, err := squirrel.
		Insert("study_events").
		SetMap(map[string]interface{}{
			"event_id":   event.EventID,
			"user_id":    event.UserID,
			"kind":       string(event.Kind),
			"created_at": event.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build study event insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert study event: %w", err)
	}

	return nil
}

// GetStudyEventTimes returns event timestamps since the given instant,
// most recent first.
func (r *Repository) GetStudyEventTimes(ctx context.Context, userID uuid.UUID, kind model.StudyEventKind, since time.Time) ([]time.Time, error) {
	query, args, err := squirrel.
		Select("created_at").
		From("study_events").
		Where(squirrel.Eq{
			"user_id": userID,
			"kind":    string(kind),
		}).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build study events query: %w", err)
	}

	var times []time.Time
	err = r.db.SelectContext(ctx, &times, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get study events: %w", err)
	}

	return times, nil
}

func (r *Repository) CountCompletedCourses(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.NotEq{"completed_at": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build completed courses query: %w", err)
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed courses: %w", err)
	}

	return count, nil
}

func (r *Repository) GetAverageQuizScore(ctx context.Context, userID uuid.UUID) (float64, error) {
	query, args, err := squirrel.
		Select("COALESCE(AVG(score), 0)::float8").
		From("quiz_attempts").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build quiz score query: %w", err)
	}

	var avg float64
	err = r.db.GetContext(ctx, &avg, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to get average quiz score: %w", err)
	}

	return avg, nil
}

// socialCountQuery selects the counter behind each social action:
// followers and following from the follow graph, comments and likes the
// user has made.
func socialCountQuery(userID uuid.UUID, action model.SocialAction) (squirrel.SelectBuilder, error) {
	builder := squirrel.Select("COUNT(*)").PlaceholderFormat(squirrel.Dollar)

	switch action {
	case model.SocialFollowers:
		return builder.From("follows").Where(squirrel.Eq{"following_id": userID}), nil
	case model.SocialFollowing:
		return builder.From("follows").Where(squirrel.Eq{"follower_id": userID}), nil
	case model.SocialComments:
		return builder.From("comments").Where(squirrel.Eq{"user_id": userID}), nil
	case model.SocialLikes:
		return builder.From("likes").Where(squirrel.Eq{"user_id": userID}), nil
	}

	return builder, fmt.Errorf("unknown social action %q", action)
}

func (r *Repository) CountSocial(ctx context.Context, userID uuid.UUID, action model.SocialAction) (int, error) {
	builder, err := socialCountQuery(userID, action)
	if err != nil {
		return 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build social count query: %w", err)
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", action, err)
	}

	return count, nil
}
