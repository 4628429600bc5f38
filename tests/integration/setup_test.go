package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fundledger/internal/database"
	"fundledger/internal/logger"
	"fundledger/internal/models"
	"fundledger/internal/server"
	"fundledger/internal/testutil"
	"fundledger/internal/validator"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-pass"
	partnerPass   = "partner-pass"
	opsKey        = "ops-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a seeded application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	if err := database.Seed(db, database.SeedConfig{
		AdminUsername:          adminUsername,
		AdminPassword:          adminPassword,
		PartnerDefaultPassword: partnerPass,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	router := server.NewRouter(db, server.Options{
		PartnerDefaultPassword: partnerPass,
		OpsAPIKey:              opsKey,
	})
	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// opsRequest calls the scheduled reconcile endpoint with an API key.
func (app *testApp) opsRequest(key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/ops/reconcile", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// must performs a request and fails the test unless it returns want.
func (app *testApp) must(t *testing.T, want int, method, path, body, token string) map[string]interface{} {
	t.Helper()
	rec := app.request(method, path, body, token)
	if rec.Code != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// login returns a token for the given credentials.
func (app *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	result := app.must(t, http.StatusOK, "POST", "/api/v1/auth/login", body, "")
	return result["token"].(string)
}

func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()
	return app.login(t, adminUsername, adminPassword)
}

// createPartner adds a partner through the API and returns its id and token.
func (app *testApp) createPartner(t *testing.T, adminToken, name string) (id, token string) {
	t.Helper()
	result := app.must(t, http.StatusCreated, "POST", "/api/v1/partners", fmt.Sprintf(`{"name":%q}`, name), adminToken)
	partner := result["partner"].(map[string]interface{})
	return partner["id"].(string), app.login(t, partner["username"].(string), partnerPass)
}

// accountIDs returns the ids of Main and Retain.
func (app *testApp) accountIDs(t *testing.T) (mainID, retainID string) {
	t.Helper()
	var accounts []models.Account
	if err := app.DB.Find(&accounts).Error; err != nil {
		t.Fatalf("failed to load accounts: %v", err)
	}
	for _, a := range accounts {
		switch a.Name {
		case models.AccountMain:
			mainID = a.ID
		case models.AccountRetain:
			retainID = a.ID
		}
	}
	return mainID, retainID
}

// balances returns the API view of each account balance keyed by name.
func (app *testApp) balances(t *testing.T, token string) map[string]string {
	t.Helper()
	result := app.must(t, http.StatusOK, "GET", "/api/v1/accounts", "", token)
	out := map[string]string{}
	for _, raw := range result["accounts"].([]interface{}) {
		a := raw.(map[string]interface{})
		out[a["name"].(string)] = a["balance"].(string)
	}
	return out
}

func assertBalances(t *testing.T, got map[string]string, main, retain string) {
	t.Helper()
	if got[models.AccountMain] != main || got[models.AccountRetain] != retain {
		t.Errorf("expected Main=%s Retain=%s, got %v", main, retain, got)
	}
}
