// Package v1_test contains tests for the API v1 handlers
package v1_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitepulse/internal/events"
	"sitepulse/internal/testsupport"
)

const testUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0"

func postJSON(t *testing.T, target string, payload map[string]any) *http.Request {
	t.Helper()

	jsonPayload, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(jsonPayload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	return req
}

func TestCreateEventPublicAPIHandler(t *testing.T) {
	t.Run("accepts valid event and returns its id", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		req := postJSON(t, "/api/v1/events", map[string]any{
			"eventType": events.EventTypePageView,
			"pageUrl":   "https://example.com/blog?utm_source=newsletter",
			"referrer":  "https://news.example.org/",
			"sessionId": "sess-1",
			"visitorId": "vis-1",
		})

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var respBody map[string]any
		require.NoError(t, json.Unmarshal(body, &respBody))
		assert.NotZero(t, respBody["id"])

		var event events.AnalyticsEvent
		require.NoError(t, db.First(&event, uint(respBody["id"].(float64))).Error)
		assert.Equal(t, "/blog", event.Path)
		require.NotNil(t, event.Source)
		assert.Equal(t, "newsletter", *event.Source)
	})

	t.Run("rejects event with missing type naming the field", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		req := postJSON(t, "/api/v1/events", map[string]any{
			"pageUrl": "https://example.com/",
		})

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var respBody map[string]any
		require.NoError(t, json.Unmarshal(body, &respBody))
		assert.Equal(t, "eventType", respBody["field"])

		var count int64
		require.NoError(t, db.Model(&events.AnalyticsEvent{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		req := httptest.NewRequest("POST", "/api/v1/events", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", testUserAgent)

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateEventBeaconHandler(t *testing.T) {
	t.Run("accepts valid beacon payload", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		payload, err := json.Marshal(map[string]any{
			"eventType":   events.EventTypePageExit,
			"pageUrl":     "https://example.com/blog",
			"sessionId":   "sess-1",
			"duration":    12,
			"scrollDepth": 80,
		})
		require.NoError(t, err)

		// sendBeacon posts as text/plain
		req := httptest.NewRequest("POST", "/api/v1/events/beacon", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("User-Agent", testUserAgent)

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&events.AnalyticsEvent{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("still returns 202 for garbage payloads", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		req := httptest.NewRequest("POST", "/api/v1/events/beacon", bytes.NewReader([]byte("not json at all")))
		req.Header.Set("Content-Type", "text/plain")

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&events.AnalyticsEvent{}).Count(&count).Error)
		assert.Zero(t, count, "garbage is acknowledged but not stored")
	})

	t.Run("still returns 202 for invalid events", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		payload, err := json.Marshal(map[string]any{
			"pageUrl": "https://example.com/",
		})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/v1/events/beacon", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "text/plain")

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})
}
