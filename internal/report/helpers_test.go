package report

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/memory"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fixture struct {
	store   *memory.Store
	tasks   service.TaskService
	builder *Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore(testLogger())
	tasks, err := service.NewTaskService(s, events.NopEmitter{}, testLogger(),
		service.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	builder := NewBuilder(s.Users(), tasks, s.Tombstones()).
		WithClock(func() time.Time { return fixedNow })
	return &fixture{store: s, tasks: tasks, builder: builder}
}

func (f *fixture) addUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user
}

func (f *fixture) subscribe(t *testing.T, userID int64, frequency domain.Frequency) {
	t.Helper()
	sub := &domain.Subscription{UserID: userID, Frequency: frequency}
	require.NoError(t, f.store.Subscriptions().Create(context.Background(), sub))
}

func ptr(s string) *string { return &s }
