package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.addUser(t, "alice")

	w := ts.do(t, http.MethodPost, "/subscribe", 0, map[string]any{"user_id": alice, "frequency": "daily"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Subscribed successfully"}`, w.Body.String())

	subs, err := ts.store.Subscriptions().ListByFrequency(context.Background(), domain.FrequencyDaily)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, alice, subs[0].UserID)

	for name, body := range map[string]any{
		"bad frequency":   map[string]any{"user_id": alice, "frequency": "hourly"},
		"missing user":    map[string]any{"frequency": "daily"},
		"unknown user":    map[string]any{"user_id": 999, "frequency": "daily"},
		"string user id":  map[string]any{"user_id": "abc", "frequency": "daily"},
		"missing payload": nil,
	} {
		t.Run(name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/subscribe", 0, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, msgInvalidSubscribe, errorMessage(t, w))
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.addUser(t, "alice")
	ts.do(t, http.MethodPost, "/subscribe", 0, map[string]any{"user_id": alice, "frequency": "weekly"})

	w := ts.do(t, http.MethodPost, "/unsubscribe", 0, map[string]any{"user_id": alice})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Unsubscribed successfully"}`, w.Body.String())

	subs, err := ts.store.Subscriptions().ListByFrequency(context.Background(), domain.FrequencyWeekly)
	require.NoError(t, err)
	assert.Empty(t, subs)

	w = ts.do(t, http.MethodPost, "/unsubscribe", 0, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user_id is required", errorMessage(t, w))
}
