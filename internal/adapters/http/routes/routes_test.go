package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopserve/internal/adapters/http/middleware"
	"shopserve/internal/adapters/notify"
	"shopserve/internal/adapters/persistence/memstore"
	"shopserve/internal/config"
	"shopserve/internal/core/domain"
	"shopserve/internal/core/services"
	"shopserve/internal/pkg/jwt"
	"shopserve/internal/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	app     *fiber.App
	store   *memstore.Store
	hub     *notify.Hub
	counter uint
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New(memstore.WithLockWait(2 * time.Second))
	hub := notify.NewHub()
	notifier := notify.NewHubNotifier(hub)

	cfg := &config.Config{AppMode: "dev", JWT: config.JWTConfig{Secret: testSecret}}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, cfg, Dependencies{
		Queue:  services.NewQueueService(store, notifier, nil, services.NewPriorityRanker(10)),
		Ledger: services.NewSettlementLedger(store, notifier),
		Hub:    hub,
	})

	return &testServer{app: app, store: store, hub: hub, counter: store.AddCounter("Counter 1", true)}
}

func token(t *testing.T, id uint, role domain.Role) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken(id, "user", string(role), testSecret, 5)
	require.NoError(t, err)
	return tok
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/api/v1/queue", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, body.Success)

	code, _ = s.do(t, http.MethodGet, "/api/v1/queue", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/display", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestQueueFlow(t *testing.T) {
	s := newTestServer(t)
	salesTok := token(t, 3, domain.RoleSales)
	cashierTok := token(t, 2, domain.RoleCashier)

	code, body := s.do(t, http.MethodPost, "/api/v1/queue/entries", salesTok, map[string]any{
		"customer_name": "Ana", "senior_citizen": true,
	})
	require.Equal(t, http.StatusCreated, code, body.Error)
	var entry domain.QueueEntry
	require.NoError(t, json.Unmarshal(body.Data, &entry))
	assert.Equal(t, domain.StatusWaiting, entry.Status)

	code, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/queue/entries/%d/position", entry.ID), salesTok, nil)
	require.Equal(t, http.StatusOK, code)
	var ranked services.RankedEntry
	require.NoError(t, json.Unmarshal(body.Data, &ranked))
	assert.Equal(t, 1, ranked.Position)

	// sales may register but not move entries
	code, body = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/queue/entries/%d/status", entry.ID), salesTok,
		map[string]string{"status": "Serving"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body.Code)

	code, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/queue/counters/%d/call-next", s.counter), cashierTok, nil)
	require.Equal(t, http.StatusOK, code, body.Error)
	require.NoError(t, json.Unmarshal(body.Data, &entry))
	assert.Equal(t, domain.StatusServing, entry.Status)
	require.NotNil(t, entry.CounterID)
	assert.Equal(t, s.counter, *entry.CounterID)

	// queue is now empty
	code, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/queue/counters/%d/call-next", s.counter), cashierTok, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Queue is empty", body.Message)

	code, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/queue/counters/%d/complete/%d", s.counter, entry.ID), cashierTok, nil)
	require.Equal(t, http.StatusOK, code, body.Error)
	require.NoError(t, json.Unmarshal(body.Data, &entry))
	assert.Equal(t, domain.StatusCompleted, entry.Status)

	code, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/queue/entries/%d/history", entry.ID), cashierTok, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []domain.QueueEvent `json:"items"`
		Meta  pagination.Meta     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Meta.Total)
}

func TestChangeStatusErrors(t *testing.T) {
	s := newTestServer(t)
	adminTok := token(t, 1, domain.RoleAdmin)
	id := s.store.AddEntry(domain.QueueEntry{CustomerName: "Ben", Status: domain.StatusWaiting, CreatedAt: time.Now()})
	path := fmt.Sprintf("/api/v1/queue/entries/%d/status", id)

	code, body := s.do(t, http.MethodPatch, path, adminTok, map[string]string{"status": "Completed"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "invalid_transition", body.Code)

	code, body = s.do(t, http.MethodPatch, path, adminTok, map[string]string{"status": "Lunch"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_error", body.Code)

	code, body = s.do(t, http.MethodPatch, "/api/v1/queue/entries/999/status", adminTok, map[string]string{"status": "Cancelled"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body.Code)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/queue/entries/abc/status", adminTok, map[string]string{"status": "Cancelled"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	cashierTok := token(t, 2, domain.RoleCashier)
	adminTok := token(t, 1, domain.RoleAdmin)

	code, _ := s.do(t, http.MethodPost, "/api/v1/queue/reset", cashierTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/queue/counters/%d", s.counter), cashierTok,
		map[string]bool{"is_active": false})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/queue/counters/%d", s.counter), adminTok,
		map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, code, body.Error)
	var counter domain.Counter
	require.NoError(t, json.Unmarshal(body.Data, &counter))
	assert.False(t, counter.IsActive)

	code, _ = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/queue/counters/%d", s.counter), adminTok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(t, http.MethodPost, "/api/v1/queue/reset", adminTok, map[string]string{"reason": "closing early"})
	require.Equal(t, http.StatusOK, code, body.Error)
	var summary services.ResetSummary
	require.NoError(t, json.Unmarshal(body.Data, &summary))
	assert.Zero(t, summary.Cancelled)
}

func TestSettlementFlow(t *testing.T) {
	s := newTestServer(t)
	cashierTok := token(t, 2, domain.RoleCashier)
	salesTok := token(t, 3, domain.RoleSales)
	adminTok := token(t, 1, domain.RoleAdmin)

	code, body := s.do(t, http.MethodPost, "/api/v1/transactions", salesTok, map[string]string{"amount": "1000.00"})
	require.Equal(t, http.StatusCreated, code, body.Error)
	var txn domain.Transaction
	require.NoError(t, json.Unmarshal(body.Data, &txn))
	settlePath := fmt.Sprintf("/api/v1/transactions/%d/settlements", txn.ID)

	code, _ = s.do(t, http.MethodPost, settlePath, salesTok, map[string]string{"amount": "10", "mode": "cash"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(t, http.MethodPost, settlePath, cashierTok, map[string]string{"amount": "900", "mode": "cash"})
	require.Equal(t, http.StatusCreated, code, body.Error)
	var view services.LedgerView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, domain.PaymentPartial, view.Transaction.PaymentStatus)
	assert.True(t, view.Transaction.BalanceAmount.Equal(decimal.NewFromInt(100)))
	require.Len(t, view.Settlements, 1)
	assert.Equal(t, uint(2), view.Settlements[0].CashierID)

	code, body = s.do(t, http.MethodPost, settlePath, cashierTok, map[string]string{"amount": "200", "mode": "cash"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "overpayment", body.Code)
	var details map[string]string
	require.NoError(t, json.Unmarshal(body.Data, &details))
	assert.Equal(t, "100.00", details["remaining"])

	code, body = s.do(t, http.MethodPost, settlePath, cashierTok, map[string]string{"amount": "50", "mode": "barter"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_error", body.Code)

	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d/audit", txn.ID), cashierTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d/audit", txn.ID), adminTok, nil)
	require.Equal(t, http.StatusOK, code)
	var audit struct {
		Items []domain.AuditRecord `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &audit))
	// one completed attempt, one rejected by the overpayment check
	require.Len(t, audit.Items, 2)

	code, _ = s.do(t, http.MethodGet, "/api/v1/transactions/999", cashierTok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	// no database is connected in tests
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebSocketRouteRejectsPlainHTTP(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/ws/queue", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
