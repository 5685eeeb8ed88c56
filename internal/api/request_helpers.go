package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
)

// handleUserIDAndTaskID extracts the acting user from the context and the
// task id from the path. It writes an error response and returns false when
// either is missing or malformed.
func handleUserIDAndTaskID(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return 0, 0, false
	}

	raw := chi.URLParam(r, "id")
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || taskID <= 0 {
		logger.FromContext(r.Context()).Debug("invalid task id", slog.String("value", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidTaskID)
		return 0, 0, false
	}

	return userID, taskID, true
}

// requireUserID returns the id placed in the context by the identity
// middleware.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.MsgAuthRequired)
		return 0, false
	}
	return userID, true
}

// decodeBody decodes the JSON body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return false
	}
	return true
}

func forbiddenMessage(action string) string {
	return fmt.Sprintf(msgForbiddenTemplate, action)
}
