package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/studyquest/gamification/internal/model"
	"github.com/studyquest/gamification/internal/service"
)

type achievementRoutes struct {
	as service.AchievementServiceI
}

func NewAchievementRoutes(handler *gin.RouterGroup, as service.AchievementServiceI) {
	r := &achievementRoutes{as: as}

	handler.GET("/achievements", r.ListAchievements)

	h := handler.Group("/users/:user_id")
	{
		h.POST("/events", r.RecordStudyEvent)
		h.POST("/achievements/check", r.CheckAchievements)
		h.GET("/achievements", r.GetUserAchievements)
		h.GET("/achievements/:achievement_id/progress", r.GetAchievementProgress)
	}
}

type AchievementResponse struct {
	AchievementID uuid.UUID       `json:"achievement_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Icon          string          `json:"icon"`
	Type          string          `json:"type"`
	Requirement   json.RawMessage `json:"requirement"`
	Rarity        string          `json:"rarity"`
}

type UserAchievementResponse struct {
	Achievement AchievementResponse `json:"achievement"`
	UnlockedAt  time.Time           `json:"unlocked_at"`
}

type AchievementProgressResponse struct {
	Achievement AchievementResponse `json:"achievement"`
	Progress    float64             `json:"progress"`
	IsCompleted bool                `json:"is_completed"`
}

type RecordStudyEventRequest struct {
	Kind       string     `json:"kind"`
	OccurredAt *time.Time `json:"occurred_at"`
}

type StudyEventResponse struct {
	EventID   uuid.UUID `json:"event_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type CheckAchievementsRequest struct {
	EventType  string     `json:"event_type" binding:"required"`
	OccurredAt *time.Time `json:"occurred_at"`
}

func toAchievementResponse(a *model.Achievement) AchievementResponse {
	resp := AchievementResponse{
		AchievementID: a.AchievementID,
		Title:         a.Title,
		Description:   a.Description,
		Icon:          a.Icon,
		Type:          string(a.Type),
		Rarity:        string(a.Rarity),
	}
	if json.Valid(a.RequirementData) {
		resp.Requirement = a.RequirementData
	}
	return resp
}

func (r *achievementRoutes) ListAchievements(c *gin.Context) {
	achievements, err := r.as.ListAchievements(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list achievements")
		return
	}

	out := make([]AchievementResponse, len(achievements))
	for i, a := range achievements {
		out[i] = toAchievementResponse(a)
	}

	c.JSON(http.StatusOK, out)
}

func (r *achievementRoutes) RecordStudyEvent(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user_id", err)
		return
	}

	var req RecordStudyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}

	var at time.Time
	if req.OccurredAt != nil {
		at = *req.OccurredAt
	}

	event, err := r.as.RecordStudyEvent(c.Request.Context(), userID, model.StudyEventKind(req.Kind), at)
	if err != nil {
		msg := "failed to record study event"
		if event != nil {
			// stored; only the follow-up achievement check failed
			msg = "study event recorded but achievement check failed"
		}
		respondError(c, err, msg)
		return
	}

	c.JSON(http.StatusCreated, StudyEventResponse{
		EventID:   event.EventID,
		Kind:      string(event.Kind),
		CreatedAt: event.CreatedAt,
	})
}

func (r *achievementRoutes) CheckAchievements(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user_id", err)
		return
	}

	var req CheckAchievementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}

	var data model.EventData
	if req.OccurredAt != nil {
		data.OccurredAt = *req.OccurredAt
	}

	err = r.as.CheckAndGrantAchievements(c.Request.Context(), userID, model.AchievementType(req.EventType), data)
	if err != nil {
		respondError(c, err, "failed to check achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *achievementRoutes) GetUserAchievements(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user_id", err)
		return
	}

	grants, err := r.as.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user achievements")
		return
	}

	out := make([]UserAchievementResponse, 0, len(grants))
	for _, g := range grants {
		if g.Achievement == nil {
			continue
		}
		out = append(out, UserAchievementResponse{
			Achievement: toAchievementResponse(g.Achievement),
			UnlockedAt:  g.UnlockedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (r *achievementRoutes) GetAchievementProgress(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user_id", err)
		return
	}

	achievementID, err := uuid.Parse(c.Param("achievement_id"))
	if err != nil {
		badRequest(c, "invalid achievement_id", err)
		return
	}

	progress, err := r.as.GetAchievementProgress(c.Request.Context(), userID, achievementID)
	if err != nil {
		respondError(c, err, "failed to get achievement progress")
		return
	}

	c.JSON(http.StatusOK, AchievementProgressResponse{
		Achievement: toAchievementResponse(progress.Achievement),
		Progress:    progress.Progress,
		IsCompleted: progress.IsCompleted,
	})
}
