package workers

import (
	"context"
	"testing"
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
	"github.com/LocalStoryMap/Oz-Backand/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sweepOnlyRepo mirrors the real SweepExpired contract: deactivate expired
// rows and re-derive each owner's entitlement flag from what remains.
type sweepOnlyRepo struct {
	repositories.SubscriptionRepository
	subs  []*models.Subscribe
	users map[string]*models.User
}

func (f *sweepOnlyRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	var swept int64
	for _, s := range f.subs {
		if s.IsActive && s.ExpiresAt.Before(now) {
			s.IsActive = false
			swept++
		}
	}
	for _, u := range f.users {
		u.IsPaidUser = false
		for _, s := range f.subs {
			if s.UserID == u.ID && s.IsActive {
				u.IsPaidUser = true
				break
			}
		}
	}
	return swept, nil
}

func TestSweep_DeactivatesExpiredOnly(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo := &sweepOnlyRepo{
		subs: []*models.Subscribe{
			{BaseModel: models.BaseModel{ID: "sub_expired"}, UserID: "user_expired", IsActive: true, ExpiresAt: now.Add(-time.Hour)},
			{BaseModel: models.BaseModel{ID: "sub_live"}, UserID: "user_live", IsActive: true, ExpiresAt: now.Add(time.Hour)},
			{BaseModel: models.BaseModel{ID: "sub_inactive"}, UserID: "user_expired", IsActive: false, ExpiresAt: now.Add(-time.Hour)},
		},
		users: map[string]*models.User{
			"user_expired": {BaseModel: models.BaseModel{ID: "user_expired"}, IsPaidUser: true},
			"user_live":    {BaseModel: models.BaseModel{ID: "user_live"}, IsPaidUser: true},
		},
	}

	w := NewSubscriptionWorker(repo, time.Hour)
	w.Sweep(context.Background())

	assert.False(t, repo.subs[0].IsActive)
	assert.True(t, repo.subs[1].IsActive)
	assert.False(t, repo.subs[2].IsActive)

	// Entitlement follows the surviving rows.
	assert.False(t, repo.users["user_expired"].IsPaidUser)
	assert.True(t, repo.users["user_live"].IsPaidUser)
}

// A second sweep over the same rows is a no-op.
func TestSweep_Idempotent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo := &sweepOnlyRepo{subs: []*models.Subscribe{
		{BaseModel: models.BaseModel{ID: "sub_expired"}, IsActive: true, ExpiresAt: now.Add(-time.Hour)},
	}}

	w := NewSubscriptionWorker(repo, time.Hour)
	w.Sweep(context.Background())
	require.False(t, repo.subs[0].IsActive)

	first, err := repo.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), first)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	repo := &sweepOnlyRepo{}
	w := NewSubscriptionWorker(repo, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	// No assertion beyond not hanging or panicking after cancel.
	time.Sleep(20 * time.Millisecond)
}
