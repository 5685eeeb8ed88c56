package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/memory"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testServer wires real services over the memory store.
type testServer struct {
	router http.Handler
	store  *memory.Store
	users  service.UserService
}

func mountRoutes(
	tasks service.TaskService,
	users service.UserService,
	subscriptions service.SubscriptionService,
) http.Handler {
	identity := middleware.NewIdentityMiddleware(nil, users)
	taskHandler := NewTaskHandler(tasks)
	authHandler := NewAuthHandler(users)
	subscriptionHandler := NewSubscriptionHandler(subscriptions)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(testLogger()))
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Post("/subscribe", subscriptionHandler.Subscribe)
	r.Post("/unsubscribe", subscriptionHandler.Unsubscribe)
	r.Route("/tasks", func(r chi.Router) {
		r.Use(identity.Identify)
		r.With(identity.RequireExistingUser).Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.With(identity.RequireExistingUser).Delete("/batch_delete", taskHandler.BatchDeleteTasks)
		r.Post("/restore_last", taskHandler.RestoreLastDeleted)
		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})
	return r
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := memory.NewStore(testLogger())

	tasks, err := service.NewTaskService(s, events.NopEmitter{}, testLogger(),
		service.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	users, err := service.NewUserService(s.Users(), auth.NewBcrypt(bcrypt.MinCost), testLogger())
	require.NoError(t, err)
	subscriptions, err := service.NewSubscriptionService(s.Subscriptions(), testLogger())
	require.NoError(t, err)

	return &testServer{router: mountRoutes(tasks, users, subscriptions), store: s, users: users}
}

func (ts *testServer) addUser(t *testing.T, name string) int64 {
	t.Helper()
	user, err := ts.users.Signup(context.Background(), domain.Credentials{
		Username: name,
		Email:    name + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	return user.ID
}

// do sends a request as userID (0 means no X-User-Id header) and returns
// the recorder.
func (ts *testServer) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(middleware.UserIDHeader, strconv.FormatInt(userID, 10))
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

// mockTaskService is a TaskService whose methods are set per test.
type mockTaskService struct {
	CreateTaskFn         func(ctx context.Context, userID int64, in domain.NewTaskInput) (*domain.Task, error)
	ListTasksFn          func(ctx context.Context, userID int64, q service.ListQuery) ([]domain.Task, error)
	GetTaskFn            func(ctx context.Context, userID, taskID int64) (*domain.Task, error)
	UpdateTaskFn         func(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) error
	DeleteTaskFn         func(ctx context.Context, userID, taskID int64) error
	BatchDeleteTasksFn   func(ctx context.Context, userID int64, start, end string) (int, error)
	RestoreLastDeletedFn func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockTaskService) CreateTask(ctx context.Context, userID int64, in domain.NewTaskInput) (*domain.Task, error) {
	return m.CreateTaskFn(ctx, userID, in)
}

func (m *mockTaskService) ListTasks(ctx context.Context, userID int64, q service.ListQuery) ([]domain.Task, error) {
	return m.ListTasksFn(ctx, userID, q)
}

func (m *mockTaskService) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	return m.GetTaskFn(ctx, userID, taskID)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) error {
	return m.UpdateTaskFn(ctx, userID, taskID, patch)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return m.DeleteTaskFn(ctx, userID, taskID)
}

func (m *mockTaskService) BatchDeleteTasks(ctx context.Context, userID int64, start, end string) (int, error) {
	return m.BatchDeleteTasksFn(ctx, userID, start, end)
}

func (m *mockTaskService) RestoreLastDeleted(ctx context.Context, userID int64) (int64, error) {
	return m.RestoreLastDeletedFn(ctx, userID)
}

// existingUsers reports every id as existing.
type existingUsers struct{ service.UserService }

func (existingUsers) Exists(context.Context, int64) (bool, error) { return true, nil }
