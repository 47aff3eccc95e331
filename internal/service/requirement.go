package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studyquest/gamification/internal/model"
)

type RequirementEvaluator struct {
	stats  StatsRepository
	streak *StreakCalculator
}

func NewRequirementEvaluator(stats StatsRepository, streak *StreakCalculator) *RequirementEvaluator {
	return &RequirementEvaluator{
		stats:  stats,
		streak: streak,
	}
}

type Evaluation struct {
	Current   float64
	Required  float64
	Progress  float64
	Completed bool
}

// Evaluate measures the user's counter for req as of now. A requirement
// variant the evaluator does not know yields a zero, incomplete result.
func (e *RequirementEvaluator) Evaluate(ctx context.Context, userID uuid.UUID, req model.Requirement, now time.Time) (Evaluation, error) {
	var current, required float64

	switch r := req.(type) {
	case model.StudyStreak:
		since := e.streak.WindowStart(now, r.Days)
		events, err := e.stats.GetStudyEventTimes(ctx, userID, model.StudyEventSession, since)
		if err != nil {
			return Evaluation{}, dependency("get study events", err)
		}
		current, required = float64(e.streak.Calculate(events)), float64(r.Days)

	case model.CourseCompletion:
		count, err := e.stats.CountCompletedCourses(ctx, userID)
		if err != nil {
			return Evaluation{}, dependency("count completed courses", err)
		}
		current, required = float64(count), float64(r.Count)

	case model.QuizMaster:
		avg, err := e.stats.GetAverageQuizScore(ctx, userID)
		if err != nil {
			return Evaluation{}, dependency("get average quiz score", err)
		}
		current, required = avg, r.Score

	case model.Social:
		count, err := e.stats.CountSocial(ctx, userID, r.Action)
		if err != nil {
			return Evaluation{}, dependency("count social "+string(r.Action), err)
		}
		current, required = float64(count), float64(r.Count)

	default:
		return Evaluation{}, nil
	}

	return Evaluation{
		Current:   current,
		Required:  required,
		Progress:  normalize(current, required),
		Completed: current >= required,
	}, nil
}

func (e *RequirementEvaluator) IsCompleted(ctx context.Context, userID uuid.UUID, req model.Requirement, now time.Time) (bool, error) {
	ev, err := e.Evaluate(ctx, userID, req, now)
	if err != nil {
		return false, err
	}
	return ev.Completed, nil
}

// Progress is min(current/required, 1); a zero requirement is complete.
func (e *RequirementEvaluator) Progress(ctx context.Context, userID uuid.UUID, req model.Requirement, now time.Time) (float64, error) {
	ev, err := e.Evaluate(ctx, userID, req, now)
	if err != nil {
		return 0, err
	}
	return ev.Progress, nil
}

func normalize(current, required float64) float64 {
	if required <= 0 {
		return 1
	}
	ratio := current / required
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}
