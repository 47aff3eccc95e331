package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/studyquest/gamification/internal/middleware"
	"github.com/studyquest/gamification/internal/model"
	"github.com/studyquest/gamification/internal/service"
)

const defaultRankingLimit = 10

type bossRoutes struct {
	bs service.BossServiceI
}

func NewBossRoutes(handler *gin.RouterGroup, bs service.BossServiceI, authz *middleware.Authorization) {
	r := &bossRoutes{bs: bs}

	h := handler.Group("/bosses")
	{
		h.GET("/:boss_id", r.GetBoss)
		h.POST("/:boss_id/attack", r.AttackBoss)
		h.GET("/:boss_id/ranking", r.GetTopDamage)
	}

	admin := handler.Group("/admin/bosses")
	admin.Use(authz.AdminOnly())
	{
		admin.POST("/:boss_id/reset", r.ResetBoss)
	}
}

type BossRewardResponse struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type BossResponse struct {
	BossID     uuid.UUID            `json:"boss_id"`
	Name       string               `json:"name"`
	Level      int                  `json:"level"`
	Health     int                  `json:"health"`
	MaxHealth  int                  `json:"max_health"`
	Attack     int                  `json:"attack"`
	Defense    int                  `json:"defense"`
	Experience int                  `json:"experience"`
	IsDefeated bool                 `json:"is_defeated"`
	Rewards    []BossRewardResponse `json:"rewards"`
}

type BattleResponse struct {
	BattleID        uuid.UUID `json:"battle_id"`
	UserID          uuid.UUID `json:"user_id"`
	EffectiveDamage int       `json:"effective_damage"`
	IsVictory       bool      `json:"is_victory"`
	CreatedAt       time.Time `json:"created_at"`
}

type AttackRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Damage *int   `json:"damage" binding:"required"`
}

type AttackResponse struct {
	Battle  BattleResponse       `json:"battle"`
	Boss    BossResponse         `json:"boss"`
	Rewards []BossRewardResponse `json:"rewards,omitempty"`
}

type DamageRankResponse struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	TotalDamage int64     `json:"total_damage"`
}

func toRewardResponses(rewards []model.BossReward) []BossRewardResponse {
	out := make([]BossRewardResponse, len(rewards))
	for i, rw := range rewards {
		out[i] = BossRewardResponse{Type: rw.Type}
		if json.Valid(rw.Payload) {
			out[i].Payload = rw.Payload
		}
	}
	return out
}

func toBossResponse(b *model.Boss) BossResponse {
	return BossResponse{
		BossID:     b.BossID,
		Name:       b.Name,
		Level:      b.Level,
		Health:     b.Health,
		MaxHealth:  b.MaxHealth,
		Attack:     b.Attack,
		Defense:    b.Defense,
		Experience: b.Experience,
		IsDefeated: b.IsDefeated,
		Rewards:    toRewardResponses(b.Rewards),
	}
}

func (r *bossRoutes) GetBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		badRequest(c, "invalid boss_id", err)
		return
	}

	boss, err := r.bs.GetBoss(c.Request.Context(), bossID)
	if err != nil {
		respondError(c, err, "failed to get boss")
		return
	}

	c.JSON(http.StatusOK, toBossResponse(boss))
}

func (r *bossRoutes) AttackBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		badRequest(c, "invalid boss_id", err)
		return
	}

	var req AttackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(c, "invalid user_id", err)
		return
	}

	result, err := r.bs.AttackBoss(c.Request.Context(), userID, bossID, *req.Damage)
	if err != nil {
		respondError(c, err, "failed to attack boss")
		return
	}

	out := AttackResponse{
		Battle: BattleResponse{
			BattleID:        result.Battle.BattleID,
			UserID:          result.Battle.UserID,
			EffectiveDamage: result.Battle.EffectiveDamage,
			IsVictory:       result.Battle.IsVictory,
			CreatedAt:       result.Battle.CreatedAt,
		},
		Boss: toBossResponse(result.Boss),
	}
	if result.Battle.IsVictory {
		out.Rewards = toRewardResponses(result.Rewards)
	}

	c.JSON(http.StatusOK, out)
}

func (r *bossRoutes) GetTopDamage(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		badRequest(c, "invalid boss_id", err)
		return
	}

	limit := defaultRankingLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid limit", err)
			return
		}
	}

	ranks, err := r.bs.GetTopDamage(c.Request.Context(), bossID, limit)
	if err != nil {
		respondError(c, err, "failed to get boss ranking")
		return
	}

	out := make([]DamageRankResponse, len(ranks))
	for i, rank := range ranks {
		out[i] = DamageRankResponse{
			Rank:        i + 1,
			UserID:      rank.UserID,
			TotalDamage: rank.TotalDamage,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *bossRoutes) ResetBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		badRequest(c, "invalid boss_id", err)
		return
	}

	boss, err := r.bs.ResetBoss(c.Request.Context(), bossID)
	if err != nil {
		respondError(c, err, "failed to reset boss")
		return
	}

	c.JSON(http.StatusOK, toBossResponse(boss))
}
