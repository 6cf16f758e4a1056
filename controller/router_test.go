package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-engagement/dao"
	"carrier-engagement/db"
	"carrier-engagement/pkg/fmcsa"
	"carrier-engagement/usecase"
)

const testAPIKey = "test-api-key-0123456789abcdef0123"

func newTestRouter(t *testing.T, limiter *RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	conn, err := db.Open(ctx, "sqlite", ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))

	loadRepo := dao.NewLoadRepository(conn)
	_, err = db.Seed(ctx, loadRepo, time.Now())
	require.NoError(t, err)

	negotiationRepo := dao.NewNegotiationRepository(conn)
	analyticsRepo := dao.NewAnalyticsRepository(conn)
	eventRepo := dao.NewEventRepository(conn)

	carrierUsecase := usecase.NewCarrierUsecase(fmcsa.NewClient("", "", time.Second), nil)
	loadUsecase := usecase.NewLoadUsecase(loadRepo)
	negotiationUsecase := usecase.NewNegotiationUsecase(dao.NewNegotiationLedger(), negotiationRepo)
	analyticsUsecase := usecase.NewAnalyticsUsecase(analyticsRepo)

	return NewRouter(RouterConfig{APIKey: testAPIKey, CORSOrigins: []string{"*"}, RateLimiter: limiter}, Controllers{
		Webhook:     NewWebhookController(usecase.NewEventUsecase(eventRepo, carrierUsecase, loadUsecase, negotiationUsecase, analyticsUsecase)),
		Load:        NewLoadController(loadUsecase),
		Carrier:     NewCarrierController(carrierUsecase),
		Dashboard:   NewDashboardController(usecase.NewDashboardUsecase(analyticsRepo, negotiationRepo, eventRepo)),
		Negotiation: NewNegotiationController(negotiationUsecase),
	})
}

func do(r http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testAPIKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, path := range []string{"/", "/health", "/webhook/health"} {
		w := do(r, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.Equal(t, "webhook", decodeBody(t, do(r, http.MethodGet, "/webhook/health", "", false))["service"])
}

func TestRouter_Auth(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/dashboard/status", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Invalid API key", decodeBody(t, w)["error"])

	req := httptest.NewRequest(http.MethodGet, "/dashboard/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/dashboard/status", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No data yet", decodeBody(t, w)["last_activity"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/webhook/carrier-engagement", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://a.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://a.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://b.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	r := newTestRouter(t, NewRateLimiter(1, 2))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", false).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", false).Code)

	w := do(r, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")

	rl.Sweep(time.Now())
	assert.Len(t, rl.visitors, 2)

	rl.Sweep(time.Now().Add(4 * time.Minute))
	assert.Empty(t, rl.visitors)
}

func TestWebhook_BadRequests(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/webhook/carrier-engagement", `{"carrier_info":{}}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/webhook/carrier-engagement", `{"event_type":"call_ended","carrier_info":{"company_name":"x"}}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "carrier_info.mc_number is required", decodeBody(t, w)["error"])

	w = do(r, http.MethodPost, "/webhook/carrier-engagement", `{not json`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_CallFlow(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/webhook/carrier-engagement",
		`{"event_type":"carrier_call_initiated","carrier_info":{"mc_number":"123456"}}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "processed", body["status"])
	assert.Equal(t, "Carrier verified - presenting available loads", body["message"])
	assert.Len(t, body["available_loads"], 2)

	w = do(r, http.MethodPost, "/webhook/carrier-engagement",
		`{"event_type":"negotiation_offer","carrier_info":{"mc_number":"123456"},"call_data":{"load_id":"LOAD001","offered_rate":2600,"original_rate":2500,"counter_offer_count":"0"}}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "recorded", decodeBody(t, w)["negotiation_status"])

	w = do(r, http.MethodGet, "/negotiations/LOAD001/123456", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	neg := decodeBody(t, w)
	assert.Len(t, neg["records"], 1)
	live := neg["live"].(map[string]any)
	assert.Equal(t, 3000.0, live["ceiling"])

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/negotiations/LOAD002/123456", "", true).Code)

	w = do(r, http.MethodPost, "/webhook/carrier-engagement",
		`{"event_type":"call_ended","carrier_info":{"mc_number":"123456"},"call_data":{"call_id":"c-1","outcome":"Deal_Closed","duration_seconds":240,"negotiation_rounds":1,"final_rate":2600,"original_rate":2500}}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ended := decodeBody(t, w)
	assert.NotEmpty(t, ended["analytics_id"])
	outcome := ended["analytics"].(map[string]any)["call_outcome"].(map[string]any)
	assert.Equal(t, "success", outcome["primary_outcome"])

	w = do(r, http.MethodGet, "/dashboard/analytics", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody(t, w)["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["total_calls"])
	assert.Equal(t, 100.0, summary["success_rate"])
	metrics := summary["negotiation_metrics"].(map[string]any)
	assert.Equal(t, 2.0, metrics["total_negotiations"])

	status := decodeBody(t, do(r, http.MethodGet, "/dashboard/status", "", true))
	points := status["data_points"].(map[string]any)
	assert.Equal(t, 3.0, points["total_events"])
}

func TestVerifyCarrier(t *testing.T) {
	r := newTestRouter(t, nil)

	ok := decodeBody(t, do(r, http.MethodGet, "/verify-carrier/123456", "", true))
	assert.Equal(t, true, ok["eligible"])
	assert.Equal(t, "search_loads", ok["next_action"])
	assert.Contains(t, ok["voice_message"], "is verified and eligible for loads.")

	bad := decodeBody(t, do(r, http.MethodGet, "/verify-carrier/555555", "", true))
	assert.Equal(t, false, bad["eligible"])
	assert.Equal(t, "end_call", bad["next_action"])
	assert.Equal(t, "FMCSA API key not configured", bad["error"])
	assert.Equal(t, "Sorry, carrier MC-555555 is not eligible. FMCSA API key not configured", bad["voice_message"])
}

func TestLoadsForVoiceAgent(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/loads/for-voice-agent?limit=-1", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list := decodeBody(t, do(r, http.MethodGet, "/loads/for-voice-agent?origin=chicago", "", true))
	assert.Equal(t, "carrier_response", list["next_action"])
	assert.Contains(t, list["voice_message"], "I have 1 load available")

	detail := decodeBody(t, do(r, http.MethodGet, "/loads/LOAD404/for-voice-agent", "", true))
	assert.Equal(t, "Sorry, I couldn't find load LOAD404.", detail["voice_message"])
}
