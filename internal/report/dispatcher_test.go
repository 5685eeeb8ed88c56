package report

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMailer records summaries and rejects the listed addresses.
type recordingMailer struct {
	mu     sync.Mutex
	reject map[string]bool
	sent   []Summary
}

func (m *recordingMailer) Send(_ context.Context, s *Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reject[s.Email] {
		return errors.New("550 mailbox unavailable")
	}
	m.sent = append(m.sent, *s)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		out = append(out, s.Email+"/"+string(s.Frequency))
	}
	return out
}

func TestDispatcher_Run(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	carol := f.addUser(t, "carol")

	f.subscribe(t, alice.ID, domain.FrequencyDaily)
	f.subscribe(t, alice.ID, domain.FrequencyDaily)
	f.subscribe(t, alice.ID, domain.FrequencyWeekly)
	f.subscribe(t, bob.ID, domain.FrequencyDaily)
	f.subscribe(t, carol.ID, domain.FrequencyMonthly)

	t.Run("one report per user and frequency", func(t *testing.T) {
		mailer := &recordingMailer{}
		d := NewDispatcher(f.store.Subscriptions(), f.builder, mailer, 2, testLogger())

		result, err := d.Run(ctx, domain.FrequencyDaily, domain.FrequencyWeekly)
		require.NoError(t, err)
		assert.Equal(t, Result{Sent: 3}, result)
		assert.ElementsMatch(t, []string{
			"alice@example.com/daily",
			"alice@example.com/weekly",
			"bob@example.com/daily",
		}, mailer.recipients())
	})

	t.Run("a failed recipient does not stop the batch", func(t *testing.T) {
		mailer := &recordingMailer{reject: map[string]bool{"alice@example.com": true}}
		d := NewDispatcher(f.store.Subscriptions(), f.builder, mailer, 1, testLogger())

		result, err := d.Run(ctx, domain.Frequencies...)
		require.NoError(t, err)
		assert.Equal(t, Result{Sent: 2, Failed: 2}, result)
		assert.ElementsMatch(t, []string{
			"bob@example.com/daily",
			"carol@example.com/monthly",
		}, mailer.recipients())
	})

	t.Run("nothing due", func(t *testing.T) {
		empty := newFixture(t)
		mailer := &recordingMailer{}
		d := NewDispatcher(empty.store.Subscriptions(), empty.builder, mailer, 1, testLogger())

		result, err := d.Run(ctx, domain.FrequencyDaily)
		require.NoError(t, err)
		assert.Equal(t, Result{}, result)
	})
}

type failingSubscriptions struct {
	store.SubscriptionStore
}

func (failingSubscriptions) ListByFrequency(context.Context, domain.Frequency) ([]domain.Subscription, error) {
	return nil, errors.New("connection reset")
}

func TestDispatcher_LoadFailure(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(failingSubscriptions{}, f.builder, &recordingMailer{}, 1, testLogger())

	_, err := d.Run(context.Background(), domain.FrequencyDaily)
	assert.ErrorContains(t, err, "failed to list daily subscriptions")
}
