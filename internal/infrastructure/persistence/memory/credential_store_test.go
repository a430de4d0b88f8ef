package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/warden/internal/domain"
)

func TestFindAccountByEmailIsCaseInsensitive(t *testing.T) {
	s := NewCredentialStore()
	s.Put(domain.Account{ID: 1, Name: "U1", Email: "u1@x.com"})

	a, err := s.FindAccountByEmail(context.Background(), "U1@X.com")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, domain.AccountID(1), a.ID)

	missing, err := s.FindAccountByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordFailureLocksAtThreshold(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewCredentialStore().WithClock(func() time.Time { return now })
	s.Put(domain.Account{ID: 7, Email: "a@x.com"})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, s.RecordFailure(ctx, 7, 3, 15*time.Minute))
	}
	a, _ := s.FindAccountByEmail(ctx, "a@x.com")
	assert.Equal(t, 2, a.FailedLoginAttempts)
	assert.Nil(t, a.LockoutUntil)

	require.NoError(t, s.RecordFailure(ctx, 7, 3, 15*time.Minute))
	a, _ = s.FindAccountByEmail(ctx, "a@x.com")
	require.NotNil(t, a.LockoutUntil)
	assert.True(t, a.LockoutUntil.Equal(now.Add(15*time.Minute)))

	require.NoError(t, s.ResetFailures(ctx, 7))
	a, _ = s.FindAccountByEmail(ctx, "a@x.com")
	assert.Zero(t, a.FailedLoginAttempts)
	assert.Nil(t, a.LockoutUntil)
}

func TestRecordFailureConcurrent(t *testing.T) {
	s := NewCredentialStore()
	s.Put(domain.Account{ID: 1, Email: "c@x.com"})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.RecordFailure(ctx, 1, 100, time.Minute)
		}()
	}
	wg.Wait()
	a, _ := s.FindAccountByEmail(ctx, "c@x.com")
	assert.Equal(t, 50, a.FailedLoginAttempts)
}

func TestFindReturnsCopy(t *testing.T) {
	s := NewCredentialStore()
	s.Put(domain.Account{ID: 1, Email: "c@x.com"})
	a, _ := s.FindAccountByEmail(context.Background(), "c@x.com")
	a.FailedLoginAttempts = 99
	b, _ := s.FindAccountByEmail(context.Background(), "c@x.com")
	assert.Zero(t, b.FailedLoginAttempts)
}
