package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/refdata"
	"github.com/muims-dev/muims/routes"
	"github.com/muims-dev/muims/testutils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	gormDB *gorm.DB
	router *gin.Engine
)

func TestMain(m *testing.M) {
	var cleanup func()
	gormDB, cleanup = testutils.SetupPostgresForIntegration()
	defer cleanup()

	tables, err := refdata.Load("../../refdata/reference.yaml")
	if err != nil {
		log.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	router = gin.New()
	routes.RegisterRoutes(router, gormDB, tables)

	code := m.Run()
	os.Exit(code)
}

// --- Helper functions ---

// doRequest makes an HTTP request against the test router. A non-nil body is
// sent as JSON; expectStatus 0 skips the status assertion.
func doRequest(t *testing.T, method, path string, body interface{}, expectStatus int) *httptest.ResponseRecorder {
	var req *http.Request

	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		reqBody, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if expectStatus != 0 {
		require.Equal(t, expectStatus, w.Code,
			fmt.Sprintf("expected %d, got %d, body=%s", expectStatus, w.Code, w.Body.String()))
	}

	return w
}

func resetTables(t *testing.T) {
	t.Helper()
	err := gormDB.Exec("TRUNCATE incident_parts, incidents, parts, audit_logs RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}

// createIncidentForTests posts a minimal valid incident merged with overrides
// and returns the new record's ID.
func createIncidentForTests(t *testing.T, overrides map[string]interface{}) uint {
	t.Helper()

	payload := map[string]interface{}{
		"title":         "Feed jam on note path",
		"customer_name": "VLTX",
		"site_name":     "Birmingham",
	}
	for k, v := range overrides {
		payload[k] = v
	}

	w := doRequest(t, http.MethodPost, "/incidents", payload, http.StatusCreated)

	var resp struct {
		Data struct {
			ID uint `json:"ID"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Data.ID)
	return resp.Data.ID
}
