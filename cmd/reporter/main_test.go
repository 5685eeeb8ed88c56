package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/memory"
	"github.com/phrazzld/tasktrack-api/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestParseFrequencies(t *testing.T) {
	tests := []struct {
		value   string
		want    []domain.Frequency
		wantErr bool
	}{
		{value: "all", want: domain.Frequencies},
		{value: "daily", want: []domain.Frequency{domain.FrequencyDaily}},
		{value: "monthly", want: []domain.Frequency{domain.FrequencyMonthly}},
		{value: "hourly", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			got, err := parseFrequencies(tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type countingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *countingMailer) Send(_ context.Context, s *report.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, s.Email)
	return nil
}

func TestNewDispatcher(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(testLogger())
	user := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, s.Users().Create(ctx, user))
	require.NoError(t, s.Subscriptions().Create(ctx, &domain.Subscription{UserID: user.ID, Frequency: domain.FrequencyDaily}))

	mailer := &countingMailer{}
	d, err := newDispatcher(s, mailer, 2, testLogger())
	require.NoError(t, err)

	result, err := d.Run(ctx, domain.FrequencyDaily)
	require.NoError(t, err)
	assert.Equal(t, report.Result{Sent: 1}, result)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
}
