package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/adapters/denylist"
	"github.com/flashnodes/flashnodes/adapters/store/memory"
	"github.com/flashnodes/flashnodes/adapters/tokenizer"
	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopPublisher struct{}

func (nopPublisher) PublishLogin(ctx context.Context, address string) error           { return nil }
func (nopPublisher) PublishProjectCreated(ctx context.Context, p *core.Project) error { return nil }
func (nopPublisher) PublishProjectUpdated(ctx context.Context, p *core.Project) error { return nil }
func (nopPublisher) PublishProjectDeleted(ctx context.Context, nodeID string) error   { return nil }

type fakeMetrics struct{ series [][]core.Point }

func (f *fakeMetrics) QueryDelta(ctx context.Context, apiKeys []string, timerange core.Timerange) ([][]core.Point, error) {
	return f.series, nil
}

type testAPI struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	logger := zap.NewNop()

	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	auth := service.NewAuthService(
		store.Identities(),
		tokenizer.NewJWTTokenizer(signKey),
		denylist.NewMemoryDenyList(),
		nopPublisher{},
		logger,
		0,
	)
	projects := service.NewProjectService(store.Projects(), store.Currencies(), store.Identities(), nopPublisher{}, logger)

	router := SetupRouter(Services{
		Auth:       auth,
		Projects:   projects,
		Currencies: service.NewCurrencyService(store.Currencies()),
		Analytics:  service.NewAnalyticsService(store.Projects(), &fakeMetrics{}, logger),
		Admins:     service.NewAdminService(store.Identities(), logger),
	})
	return &testAPI{router: router, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// login walks the full challenge-response flow for a fresh wallet and
// returns its lowercase address and a bearer token.
func (a *testAPI) login(t *testing.T) (string, string) {
	t.Helper()

	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	address := strings.ToLower(gethcrypto.PubkeyToAddress(key.PublicKey).Hex())

	rec := a.do(t, http.MethodGet, "/auth/nonce/"+address, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var challenge struct {
		Nonce string `json:"nonce"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &challenge))

	sig, err := gethcrypto.Sign(accounts.TextHash([]byte(challenge.Nonce)), key)
	require.NoError(t, err)

	rec = a.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"address":   address,
		"signature": hexutil.Encode(sig),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	return address, login.AccessToken
}

func TestLoginFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	address, token := api.login(t)

	rec := api.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Address string `json:"address"`
		IsAdmin bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, address, me.Address)
	require.False(t, me.IsAdmin)
}

func TestChallengeRejectsBadAddress(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/auth/nonce/nonsense", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLoginBadSignature(t *testing.T) {
	api := newTestAPI(t)
	address, _ := api.login(t)

	rec := api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"address":   address,
		"signature": "0xdeadbeef",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.login(t)

	rec := api.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/me", "/api/projects", "/api/currencies", "/admin/projects"} {
		rec := api.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	seedCurrencyHTTP(t, api)
	_, token := api.login(t)

	rec := api.do(t, http.MethodPost, "/api/projects", token, gin.H{
		"currency":  "ETH",
		"mode":      "full",
		"network":   "mainnet",
		"pay_until": "2026-10-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		NodeID string `json:"node_id"`
		APIKey string `json:"api_key"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.APIKey)
	require.Equal(t, "pending", created.Status)

	rec = api.do(t, http.MethodGet, "/api/projects/"+created.NodeID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another wallet cannot see or delete the project.
	_, otherToken := api.login(t)
	rec = api.do(t, http.MethodGet, "/api/projects/"+created.NodeID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(t, http.MethodDelete, "/api/projects/"+created.NodeID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/projects/"+created.NodeID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateProjectValidationOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	seedCurrencyHTTP(t, api)
	_, token := api.login(t)

	rec := api.do(t, http.MethodPost, "/api/projects", token, gin.H{
		"currency":  "ETH",
		"mode":      "turbo",
		"network":   "mainnet",
		"pay_until": "2026-10-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminSurfaceForbiddenForRegularUsers(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.login(t)

	rec := api.do(t, http.MethodGet, "/admin/projects", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminManageProject(t *testing.T) {
	api := newTestAPI(t)
	seedCurrencyHTTP(t, api)

	ownerAddress, ownerToken := api.login(t)
	adminAddress, adminToken := api.login(t)
	promote(t, api, adminAddress)

	rec := api.do(t, http.MethodPost, "/api/projects", ownerToken, gin.H{
		"currency":  "ETH",
		"mode":      "full",
		"network":   "mainnet",
		"pay_until": "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		NodeID string `json:"node_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodPost, "/admin/projects/manage/"+created.NodeID, adminToken, gin.H{
		"is_paid": true,
		"status":  "active",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		Owner  string `json:"owner"`
		IsPaid bool   `json:"is_paid"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.True(t, updated.IsPaid)
	require.Equal(t, "active", updated.Status)
	require.Equal(t, ownerAddress, updated.Owner)

	rec = api.do(t, http.MethodPost, "/admin/projects/manage/"+created.NodeID, adminToken, gin.H{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodGet, "/admin/projects", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, int64(1), list.Total)
}

func TestAdminCreateOnBehalf(t *testing.T) {
	api := newTestAPI(t)
	seedCurrencyHTTP(t, api)

	ownerAddress, ownerToken := api.login(t)
	adminAddress, adminToken := api.login(t)
	promote(t, api, adminAddress)

	rec := api.do(t, http.MethodPost, "/admin/projects/request/"+ownerAddress, adminToken, gin.H{
		"currency":  "ETH",
		"mode":      "archived",
		"network":   "testnet",
		"pay_until": "2026-12-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Owner   string `json:"owner"`
		Mode    string `json:"mode"`
		Network string `json:"network"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, ownerAddress, created.Owner)
	require.Equal(t, "archived", created.Mode)
	require.Equal(t, "testnet", created.Network)

	// The owner sees it in their own listing.
	rec = api.do(t, http.MethodGet, "/api/projects", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Projects []projectResponse `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Projects, 1)
}

func TestAnalyticsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	seedCurrencyHTTP(t, api)
	_, token := api.login(t)

	// No projects yet.
	rec := api.do(t, http.MethodGet, "/api/analytics/total?timerange=1h&steps=12", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/projects", token, gin.H{
		"currency":  "ETH",
		"mode":      "full",
		"network":   "mainnet",
		"pay_until": "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/analytics/total?timerange=1h&steps=12", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var series struct {
		Chart []core.Point `json:"chart"`
		Total int64        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	require.Len(t, series.Chart, 12)
	require.Zero(t, series.Total)

	rec = api.do(t, http.MethodGet, "/api/analytics/total?timerange=2h&steps=12", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/analytics/total?timerange=1h&steps=500", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Timerange is mandatory; steps falls back to 6 points.
	rec = api.do(t, http.MethodGet, "/api/analytics/total?steps=12", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/analytics/total?timerange=1h", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	series.Chart = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	require.Len(t, series.Chart, 6)
}

func TestAdminRoster(t *testing.T) {
	api := newTestAPI(t)

	address, _ := api.login(t)
	adminAddress, adminToken := api.login(t)
	promote(t, api, adminAddress)

	rec := api.do(t, http.MethodPost, "/admin/superusers/"+address, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/admin/superusers/"+address, adminToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/admin/superusers", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var roster struct {
		Admins []identityResponse `json:"admins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	require.Len(t, roster.Admins, 2)

	rec = api.do(t, http.MethodDelete, "/admin/superusers/"+address, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCurrencyAdminCRUDOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	adminAddress, adminToken := api.login(t)
	promote(t, api, adminAddress)

	rec := api.do(t, http.MethodPost, "/admin/currencies", adminToken, gin.H{
		"symbol": "btc",
		"name":   "Bitcoin",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created currencyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "BTC", created.Symbol)

	rec = api.do(t, http.MethodPost, "/admin/currencies", adminToken, gin.H{
		"symbol": "BTC",
		"name":   "Bitcoin again",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/currencies", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/admin/currencies/%d", created.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func seedCurrencyHTTP(t *testing.T, api *testAPI) {
	t.Helper()

	_, err := api.store.Currencies().Create(context.Background(), &core.Currency{
		Symbol:   "ETH",
		FullName: "Ethereum",
	})
	require.NoError(t, err)
}

func promote(t *testing.T, api *testAPI, address string) {
	t.Helper()

	require.NoError(t, api.store.Identities().SetAdmin(context.Background(), address, true))
}
