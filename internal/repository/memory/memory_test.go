package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobboard/internal/model"
)

func TestUserRepository_CreateWithProfile(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)

	u := model.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: "h", CreatedAt: time.Now()}
	saved, profile, err := users.CreateWithProfile(ctx, u, model.RoleCompany)
	require.NoError(t, err)
	assert.Equal(t, u.ID, saved.ID)
	assert.Equal(t, u.ID, profile.ID)
	assert.Equal(t, model.RoleCompany, profile.Role)

	got, err := profiles.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)

	_, _, err = users.CreateWithProfile(ctx, model.User{ID: uuid.New(), Email: "a@b.com"}, model.RoleSeeker)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = users.GetByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOfferRepository_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	offers := NewOfferRepository(NewDB())

	companyA, companyB := uuid.New(), uuid.New()
	base := time.Now()
	for i, c := range []uuid.UUID{companyA, companyB, companyA} {
		_, err := offers.Create(ctx, model.JobOffer{ID: uuid.New(), CompanyID: c, Title: "t", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	all, err := offers.List(ctx, model.OfferFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	onlyA, err := offers.List(ctx, model.OfferFilter{CompanyID: &companyA})
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)
}

func TestApplicationRepository(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := NewUserRepository(db)
	offers := NewOfferRepository(db)
	apps := NewApplicationRepository(db)

	seeker, _, err := users.CreateWithProfile(ctx, model.User{ID: uuid.New(), Email: "s@b.com"}, model.RoleSeeker)
	require.NoError(t, err)
	offer, err := offers.Create(ctx, model.JobOffer{ID: uuid.New(), CompanyID: uuid.New(), Title: "Dev", CreatedAt: time.Now()})
	require.NoError(t, err)

	app, err := apps.Create(ctx, model.Application{ID: uuid.New(), JobID: offer.ID, UserID: seeker.ID, Status: model.StatusReceived, CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = apps.Create(ctx, model.Application{ID: uuid.New(), JobID: offer.ID, UserID: seeker.ID})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = apps.Create(ctx, model.Application{ID: uuid.New(), JobID: uuid.New(), UserID: seeker.ID})
	assert.ErrorIs(t, err, model.ErrNotFound)

	mine, err := apps.ListByUser(ctx, seeker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Dev", mine[0].Offer.Title)

	ghost := uuid.New()
	_, err = apps.Create(ctx, model.Application{ID: uuid.New(), JobID: offer.ID, UserID: ghost, Status: model.StatusReceived, CreatedAt: time.Now().Add(time.Second)})
	require.NoError(t, err)

	board, err := apps.ListByJob(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "s@b.com", board[0].ApplicantEmail)
	assert.Equal(t, model.NoEmail, board[1].ApplicantEmail)

	moved, err := apps.UpdateStatus(ctx, offer.ID, seeker.ID, model.StatusAdvanced)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAdvanced, moved.Status)

	_, err = apps.UpdateStatus(ctx, offer.ID, uuid.New(), model.StatusAdvanced)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, apps.SetResumeKey(ctx, app.ID, "resumes/x"))
	got, err := apps.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, got.HasResume)
	assert.ErrorIs(t, apps.SetResumeKey(ctx, uuid.New(), "k"), model.ErrNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	tokens := NewRefreshTokenRepository(NewDB())
	user := uuid.New()
	now := time.Now()

	require.NoError(t, tokens.Create(ctx, model.RefreshToken{JTI: "live", UserID: user, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, tokens.Create(ctx, model.RefreshToken{JTI: "old", UserID: user, ExpiresAt: now.Add(-time.Hour)}))
	assert.ErrorIs(t, tokens.Create(ctx, model.RefreshToken{JTI: "live"}), model.ErrAlreadyExists)

	n, err := tokens.DeleteStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err := tokens.RevokeByJTI(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
	got, err := tokens.GetByJTI(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, got.RevokedAt)
	assert.False(t, got.Live(now))

	revoked, err = tokens.RevokeByJTI(ctx, "live")
	require.NoError(t, err)
	assert.False(t, revoked, "second revoke must not report success")

	require.NoError(t, tokens.Create(ctx, model.RefreshToken{JTI: "other", UserID: user, ExpiresAt: now.Add(time.Hour)}))
	n, err = tokens.RevokeAllByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = tokens.GetByJTI(ctx, "old")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
