package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyquest/gamification/internal/middleware"
	"github.com/studyquest/gamification/internal/model"
	"github.com/studyquest/gamification/internal/service"
	"github.com/studyquest/gamification/internal/service/mocks"
)

const testAdminToken = "s3cret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newBossRouter(bs service.BossServiceI, adminToken string) *gin.Engine {
	r := gin.New()
	NewBossRoutes(r.Group("/api/v1"), bs, middleware.NewAuthorization(adminToken))
	return r
}

func doRequest(r http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBossRoutes_AttackBoss(t *testing.T) {
	bossID := uuid.New()
	userID := uuid.New()
	rewards := []model.BossReward{{Type: "xp", Payload: []byte(`{"amount":500}`)}}

	tests := []struct {
		name           string
		path           string
		body           any
		mockSetup      func(*mocks.MockBossService)
		expectedStatus int
		expectedCode   string
		check          func(*testing.T, AttackResponse)
	}{
		{
			name: "Hit",
			path: "/api/v1/bosses/" + bossID.String() + "/attack",
			body: gin.H{"user_id": userID.String(), "damage": 100},
			mockSetup: func(m *mocks.MockBossService) {
				m.On("AttackBoss", mock.Anything, userID, bossID, 100).Return(&model.AttackResult{
					Battle: &model.BossBattle{BattleID: uuid.New(), BossID: bossID, UserID: userID, EffectiveDamage: 50},
					Boss:   &model.Boss{BossID: bossID, Health: 600, MaxHealth: 1000, Defense: 50, Rewards: rewards},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp AttackResponse) {
				assert.Equal(t, 50, resp.Battle.EffectiveDamage)
				assert.False(t, resp.Battle.IsVictory)
				assert.Equal(t, 600, resp.Boss.Health)
				assert.Empty(t, resp.Rewards)
			},
		},
		{
			name: "Victory returns rewards",
			path: "/api/v1/bosses/" + bossID.String() + "/attack",
			body: gin.H{"user_id": userID.String(), "damage": 100},
			mockSetup: func(m *mocks.MockBossService) {
				m.On("AttackBoss", mock.Anything, userID, bossID, 100).Return(&model.AttackResult{
					Battle:  &model.BossBattle{BattleID: uuid.New(), BossID: bossID, UserID: userID, EffectiveDamage: 90, IsVictory: true},
					Boss:    &model.Boss{BossID: bossID, Health: 0, MaxHealth: 1000, Defense: 10, IsDefeated: true, Rewards: rewards},
					Rewards: rewards,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp AttackResponse) {
				assert.True(t, resp.Battle.IsVictory)
				assert.True(t, resp.Boss.IsDefeated)
				require.Len(t, resp.Rewards, 1)
				assert.Equal(t, "xp", resp.Rewards[0].Type)
				assert.JSONEq(t, `{"amount":500}`, string(resp.Rewards[0].Payload))
			},
		},
		{
			name: "Zero damage is accepted",
			path: "/api/v1/bosses/" + bossID.String() + "/attack",
			body: gin.H{"user_id": userID.String(), "damage": 0},
			mockSetup: func(m *mocks.MockBossService) {
				m.On("AttackBoss", mock.Anything, userID, bossID, 0).Return(&model.AttackResult{
					Battle: &model.BossBattle{EffectiveDamage: 1},
					Boss:   &model.Boss{BossID: bossID, Health: 99, MaxHealth: 100},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Already defeated",
			path: "/api/v1/bosses/" + bossID.String() + "/attack",
			body: gin.H{"user_id": userID.String(), "damage": 100},
			mockSetup: func(m *mocks.MockBossService) {
				m.On("AttackBoss", mock.Anything, userID, bossID, 100).Return(nil, service.ErrBossAlreadyDefeated)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "BOSS_ALREADY_DEFEATED",
		},
		{
			name: "Unknown boss",
			path: "/api/v1/bosses/" + bossID.String() + "/attack",
			body: gin.H{"user_id": userID.String(), "damage": 100},
			mockSetup: func(m *mocks.MockBossService) {
				m.On("AttackBoss", mock.Anything, userID, bossID, 100).Return(nil, service.ErrBossNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "Store unavailable",
			path: "/api/v1/bosses/" + bossID.String() + "/attack",
			body: gin.H{"user_id": userID.String(), "damage": 100},
			mockSetup: func(m *mocks.MockBossService) {
				m.On("AttackBoss", mock.Anything, userID, bossID, 100).
					Return(nil, &service.DependencyError{Op: "apply boss damage", Err: assert.AnError})
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "DEPENDENCY",
		},
		{
			name:           "Invalid boss id",
			path:           "/api/v1/bosses/not-a-uuid/attack",
			body:           gin.H{"user_id": userID.String(), "damage": 100},
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION",
		},
		{
			name:           "Missing damage",
			path:           "/api/v1/bosses/" + bossID.String() + "/attack",
			body:           gin.H{"user_id": userID.String()},
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION",
		},
		{
			name:           "Invalid user id",
			path:           "/api/v1/bosses/" + bossID.String() + "/attack",
			body:           gin.H{"user_id": "42", "damage": 100},
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &mocks.MockBossService{}
			tt.mockSetup(bs)
			r := newBossRouter(bs, testAdminToken)

			w := doRequest(r, http.MethodPost, tt.path, tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
			if tt.check != nil {
				var resp AttackResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				tt.check(t, resp)
			}
			bs.AssertExpectations(t)
		})
	}
}

func TestBossRoutes_GetTopDamage(t *testing.T) {
	bossID := uuid.New()
	first, second := uuid.New(), uuid.New()

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*mocks.MockBossService)
		expectedStatus int
		expectedRanks  []DamageRankResponse
	}{
		{
			name:  "Default limit",
			query: "",
			mockSetup: func(m *mocks.MockBossService) {
				m.On("GetTopDamage", mock.Anything, bossID, defaultRankingLimit).Return([]*model.DamageRank{
					{UserID: first, TotalDamage: 900},
					{UserID: second, TotalDamage: 120},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedRanks: []DamageRankResponse{
				{Rank: 1, UserID: first, TotalDamage: 900},
				{Rank: 2, UserID: second, TotalDamage: 120},
			},
		},
		{
			name:  "Explicit limit",
			query: "?limit=1",
			mockSetup: func(m *mocks.MockBossService) {
				m.On("GetTopDamage", mock.Anything, bossID, 1).Return([]*model.DamageRank{
					{UserID: first, TotalDamage: 900},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedRanks:  []DamageRankResponse{{Rank: 1, UserID: first, TotalDamage: 900}},
		},
		{
			name:  "Rejected limit",
			query: "?limit=0",
			mockSetup: func(m *mocks.MockBossService) {
				m.On("GetTopDamage", mock.Anything, bossID, 0).
					Return(nil, &service.ValidationError{Field: "limit", Reason: "must be at least 1"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Non-numeric limit",
			query:          "?limit=ten",
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &mocks.MockBossService{}
			tt.mockSetup(bs)
			r := newBossRouter(bs, testAdminToken)

			w := doRequest(r, http.MethodGet, "/api/v1/bosses/"+bossID.String()+"/ranking"+tt.query, nil, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedRanks != nil {
				var ranks []DamageRankResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranks))
				assert.Equal(t, tt.expectedRanks, ranks)
			}
			bs.AssertExpectations(t)
		})
	}
}

func TestBossRoutes_GetBoss(t *testing.T) {
	bossID := uuid.New()
	bs := &mocks.MockBossService{}
	bs.On("GetBoss", mock.Anything, bossID).Return(&model.Boss{
		BossID:    bossID,
		Name:      "Procrastination Dragon",
		Health:    650,
		MaxHealth: 1000,
		Rewards:   []model.BossReward{{Type: "badge", Payload: []byte(`not json`)}},
	}, nil)
	r := newBossRouter(bs, testAdminToken)

	w := doRequest(r, http.MethodGet, "/api/v1/bosses/"+bossID.String(), nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp BossResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Procrastination Dragon", resp.Name)
	assert.Equal(t, 650, resp.Health)
	require.Len(t, resp.Rewards, 1)
	assert.Empty(t, resp.Rewards[0].Payload)
}

func TestBossRoutes_ResetBoss(t *testing.T) {
	bossID := uuid.New()
	path := "/api/v1/admin/bosses/" + bossID.String() + "/reset"

	tests := []struct {
		name           string
		configured     string
		token          string
		mockSetup      func(*mocks.MockBossService)
		expectedStatus int
	}{
		{
			name:       "Admin resets boss",
			configured: testAdminToken,
			token:      testAdminToken,
			mockSetup: func(m *mocks.MockBossService) {
				m.On("ResetBoss", mock.Anything, bossID).
					Return(&model.Boss{BossID: bossID, Health: 1000, MaxHealth: 1000}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing token",
			configured:     testAdminToken,
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong token",
			configured:     testAdminToken,
			token:          "guess",
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Admin access disabled",
			configured:     "",
			token:          "anything",
			mockSetup:      func(m *mocks.MockBossService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:       "Unknown boss",
			configured: testAdminToken,
			token:      testAdminToken,
			mockSetup: func(m *mocks.MockBossService) {
				m.On("ResetBoss", mock.Anything, bossID).Return(nil, service.ErrBossNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &mocks.MockBossService{}
			tt.mockSetup(bs)
			r := newBossRouter(bs, tt.configured)

			header := http.Header{}
			if tt.token != "" {
				header.Set(middleware.AdminTokenHeader, tt.token)
			}
			w := doRequest(r, http.MethodPost, path, nil, header)

			assert.Equal(t, tt.expectedStatus, w.Code)
			bs.AssertExpectations(t)
			if tt.expectedStatus != http.StatusOK && tt.expectedStatus != http.StatusNotFound {
				bs.AssertNumberOfCalls(t, "ResetBoss", 0)
			}
		})
	}
}

func TestBattleResponse_Timestamps(t *testing.T) {
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	bs := &mocks.MockBossService{}
	bossID, userID := uuid.New(), uuid.New()
	bs.On("AttackBoss", mock.Anything, userID, bossID, 5).Return(&model.AttackResult{
		Battle: &model.BossBattle{BattleID: uuid.New(), BossID: bossID, UserID: userID, EffectiveDamage: 5, CreatedAt: at},
		Boss:   &model.Boss{BossID: bossID, Health: 5, MaxHealth: 10},
	}, nil)
	r := newBossRouter(bs, testAdminToken)

	w := doRequest(r, http.MethodPost, "/api/v1/bosses/"+bossID.String()+"/attack",
		gin.H{"user_id": userID.String(), "damage": 5}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp AttackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Battle.CreatedAt.Equal(at))
}
