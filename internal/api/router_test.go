package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eldorado-p2p/influencer-api/internal/api/handler"
	"github.com/eldorado-p2p/influencer-api/internal/config"
	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
	"github.com/eldorado-p2p/influencer-api/internal/service"
)

const testAPIKey = "router-test-key"

type stubProvider struct {
	accountIDs map[string]string
	drafts     map[string][]domain.VideoDraft
}

func (s *stubProvider) AccountID(_ context.Context, username string) string {
	return s.accountIDs[username]
}

func (s *stubProvider) SponsoredVideos(_ context.Context, username string) []domain.VideoDraft {
	return s.drafts[username]
}

type stubResolver struct{}

func (stubResolver) ExpandURL(_ context.Context, raw string) string      { return raw }
func (stubResolver) ExtractVideoID(_ context.Context, raw string) string { return "" }

type stubTranscriber struct{}

func (stubTranscriber) TranscribeURL(_ context.Context, _ string) (string, error) {
	return "", nil
}

type stubChat struct{ reply string }

func (s stubChat) Complete(_ context.Context, _, _ string) (string, error) {
	return s.reply, nil
}

func newTestRouter(t *testing.T, provider *stubProvider) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ownerRepo := repository.NewOwnerRepository(db)
	influencerRepo := repository.NewInfluencerRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	ownerSvc := service.NewOwnerService(ownerRepo, log)
	influencerSvc := service.NewInfluencerService(influencerRepo, ownerRepo, log)
	syncSvc := service.NewSyncService(provider, influencerRepo, videoRepo, config.SyncConfig{Mention: "@El Dorado P2P"}, log)
	transcribeSvc := service.NewTranscriptionService(stubResolver{}, stubTranscriber{}, syncSvc, videoRepo, log)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, influencerRepo)
	assistantSvc := service.NewAssistantService(stubChat{reply: "resposta"}, influencerRepo, ownerRepo, videoRepo, analyticsRepo, log)
	exportSvc := service.NewExportService(influencerRepo, videoRepo, analyticsRepo, log)

	return NewRouter(
		handler.NewHealthHandler(db, "test"),
		handler.NewOwnerHandler(ownerSvc, log),
		handler.NewInfluencerHandler(influencerSvc, syncSvc, log),
		handler.NewVideoHandler(syncSvc, transcribeSvc, videoRepo, log),
		handler.NewAnalyticsHandler(analyticsSvc, log),
		handler.NewAssistantHandler(assistantSvc, log),
		handler.NewAdminHandler(influencerSvc, exportSvc, videoRepo, log),
		testAPIKey,
	)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthIsUnauthenticated(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RejectsMissingAPIKey(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/influencers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RejectsWrongAPIKey(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/influencers", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_InfluencerLifecycle(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	// Unknown owner is rejected before anything is written.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/influencers", map[string]string{
		"first_name": "Andy",
		"handle":     "andyflores",
		"owner_name": "samuel",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/owners", map[string]string{
		"name": "samuel",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/influencers", map[string]string{
		"first_name":      "Andy",
		"handle":          "andyflores",
		"owner_name":      "samuel",
		"tiktok_username": "andy.tt",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate handle conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/influencers", map[string]string{
		"first_name": "Andy",
		"handle":     "andyflores",
		"owner_name": "samuel",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/influencers/andyflores", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var influencer domain.Influencer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &influencer))
	assert.Equal(t, "andyflores", influencer.Handle)
	assert.Equal(t, domain.InfluencerActive, influencer.Status)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/influencers/andyflores/social-accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "andy.tt")

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/influencers/andyflores", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/influencers/andyflores", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SyncAndAnalytics(t *testing.T) {
	provider := &stubProvider{
		accountIDs: map[string]string{"andy.tt": "1"},
		drafts: map[string][]domain.VideoDraft{
			"andy.tt": {{
				TikTokVideoID: "111",
				Description:   "promo @El Dorado P2P",
				ViewCount:     1000,
				LikeCount:     80,
				CommentCount:  15,
				ShareCount:    5,
			}},
		},
	}
	router := newTestRouter(t, provider)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/owners", map[string]string{"name": "samuel"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/influencers", map[string]string{
		"first_name":      "Andy",
		"handle":          "andyflores",
		"owner_name":      "samuel",
		"tiktok_username": "andy.tt",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/videos/sync/andyflores", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report domain.SyncReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, 1, report.NewVideos)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/videos?handle=andyflores", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"engagement_rate":10`)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard domain.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
	assert.Equal(t, int64(1), dashboard.TotalVideos)
	assert.Equal(t, int64(1000), dashboard.TotalViews)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analytics/top-videos/banana", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SyncUnknownInfluencer(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/videos/sync/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AssistantChat(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", map[string]string{
		"message": "quantos videos temos?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resposta")
}

func TestRouter_AdminExport(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}
