// internal/server/process_test.go
package server

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/store"
)

// regexpArg matches a driver argument against a pattern.
type regexpArg struct{ re *regexp.Regexp }

func (a regexpArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && a.re.MatchString(s)
}

// ==========================
// Process Endpoint Tests
// ==========================

func TestHandleProcess(t *testing.T) {
	f := newFixture(t)
	f.classifierLLM.responses = []*llm.Response{textResponse(
		`{"primary_intent":"reservation","entities":{"party_size":4},"confidence":0.92,"requires_human":false}`,
	)}
	f.agentLLM.responses = []*llm.Response{textResponse("Table for 4 booked for Saturday at 7 PM!")}
	f.dbMock.ExpectExec(`INSERT INTO conversations`).
		WithArgs("rest-1", "cust-42", "whatsapp", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "Table for 4 on Saturday at 7?",
		"context":       map[string]interface{}{"table_hint": "patio"},
		"restaurant_id": "rest-1",
		"customer_id":   "cust-42",
		"channel":       "whatsapp",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Table for 4 on Saturday at 7?", resp.Input)
	assert.Equal(t, "Table for 4 booked for Saturday at 7 PM!", resp.Output)
	assert.Equal(t, "reservation", resp.Intent)
	assert.Equal(t, 0.92, resp.Confidence)
	assert.False(t, resp.RequiresHuman)

	assert.Equal(t, 1, f.classifierLLM.callCount())
	assert.Contains(t, f.classifierLLM.requests[0].Messages[0].Content, `"table_hint":"patio"`)
	assert.Equal(t, 1, f.agentLLM.callCount())

	cached, err := f.redis.Get(store.CacheKey("rest-1", "Table for 4 on Saturday at 7?"))
	require.NoError(t, err)
	assert.JSONEq(t, rec.Body.String(), cached)

	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestHandleProcess_CacheHit(t *testing.T) {
	f := newFixture(t)
	cached := `{"input":"When do you open?","output":"11 AM on weekdays.","intent":"hours_inquiry","confidence":0.9,"requires_human":false}`
	require.NoError(t, f.redis.Set(store.CacheKey("rest-1", "When do you open?"), cached))

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "When do you open?",
		"restaurant_id": "rest-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cached, rec.Body.String())
	assert.Zero(t, f.classifierLLM.callCount())
	assert.Zero(t, f.agentLLM.callCount())
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestHandleProcess_SecondCallServedFromCache(t *testing.T) {
	f := newFixture(t)
	f.dbMock.ExpectExec(`INSERT INTO conversations`).
		WithArgs("rest-1", "cust-42", "web", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := map[string]interface{}{
		"message":       "Do you have vegan options?",
		"restaurant_id": "rest-1",
		"customer_id":   "cust-42",
	}
	first := f.perform(t, http.MethodPost, "/process", body)
	second := f.perform(t, http.MethodPost, "/process", body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, f.agentLLM.callCount())
	assert.Equal(t, 1, f.classifierLLM.callCount())
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestHandleProcess_RestaurantNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "hello",
		"restaurant_id": "ghost",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RESTAURANT_NOT_FOUND", decodeErrorCode(t, rec))
}

func TestHandleProcess_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing message", map[string]interface{}{"restaurant_id": "rest-1"}},
		{"missing restaurant_id", map[string]interface{}{"message": "hello"}},
		{"malformed body", `{"message": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.perform(t, http.MethodPost, "/process", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_INPUT", decodeErrorCode(t, rec))
			assert.Zero(t, f.agentLLM.callCount())
		})
	}
}

func TestHandleProcess_ClassificationDegrades(t *testing.T) {
	f := newFixture(t)
	f.classifierLLM.errs = []error{errors.NewLLMTimeoutError("gemini")}
	f.agentLLM.responses = []*llm.Response{textResponse("We open at 11 AM.")}
	f.dbMock.ExpectExec(`INSERT INTO conversations`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "When do you open?",
		"restaurant_id": "rest-1",
		"customer_id":   "cust-42",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "We open at 11 AM.", resp.Output)
	assert.Equal(t, "general_inquiry", resp.Intent)
	assert.Zero(t, resp.Confidence)
}

func TestHandleProcess_AgentFailure(t *testing.T) {
	f := newFixture(t)
	f.agentLLM.errs = []error{errors.NewLLMUnavailableError("gemini", assert.AnError)}

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "hello",
		"restaurant_id": "rest-1",
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "LLM_UNAVAILABLE", decodeErrorCode(t, rec))
	assert.Empty(t, f.redis.Keys())
}

func TestHandleProcess_LogFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.dbMock.ExpectExec(`INSERT INTO conversations`).
		WillReturnError(assert.AnError)

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "hello",
		"restaurant_id": "rest-1",
		"customer_id":   "cust-42",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "CONVERSATION_LOG_FAILED", decodeErrorCode(t, rec))

	// The response was cached before logging failed, matching the write
	// order of the request path.
	_, err := f.redis.Get(store.CacheKey("rest-1", "hello"))
	assert.NoError(t, err)
}

func TestHandleProcess_AnonymousCustomerThread(t *testing.T) {
	f := newFixture(t)
	anonKey := regexpArg{re: regexp.MustCompile(`^anon-[0-9a-f-]{36}$`)}
	f.dbMock.ExpectExec(`INSERT INTO conversations`).
		WithArgs("rest-1", anonKey, "web", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := f.perform(t, http.MethodPost, "/process", map[string]interface{}{
		"message":       "hello",
		"restaurant_id": "rest-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}
