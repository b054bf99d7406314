package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/app/apptest"
	"github.com/dtroode/jobboard/internal/model"
)

type recorder struct {
	mu     sync.Mutex
	events []*model.Identity
}

func (r *recorder) listen(identity *model.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, identity)
}

func (r *recorder) all() []*model.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Identity(nil), r.events...)
}

func newTestClient(t *testing.T) *Client {
	srv, _ := apptest.NewServer(t)
	return New(srv.URL, 5*time.Second)
}

func TestClient_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	rec := &recorder{}
	unsubscribe := c.Subscribe(rec.listen)

	identity, err := c.CurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity)

	reg, err := c.SignUp(ctx, "Acme@Example.com", "secret1", model.RoleCompany)
	require.NoError(t, err)
	assert.Equal(t, "/auth/login", reg.RedirectTo)
	assert.Equal(t, model.RoleCompany, reg.Profile.Role)
	assert.Nil(t, c.Session(), "registration does not sign in")

	res, err := c.SignIn(ctx, "acme@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/company", res.RedirectTo)
	require.NotNil(t, res.Profile)

	identity, err = c.CurrentIdentity(ctx)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, reg.User.ID, identity.ID)

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acme@example.com", profile.Email)

	oldRefresh := c.Session().RefreshToken
	require.NoError(t, c.Refresh(ctx))
	assert.NotEqual(t, oldRefresh, c.Session().RefreshToken)

	require.NoError(t, c.SignOut(ctx))
	assert.Nil(t, c.Session())

	events := rec.all()
	require.Len(t, events, 3)
	assert.Equal(t, reg.User.ID, events[0].ID)
	assert.Equal(t, reg.User.ID, events[1].ID)
	assert.Nil(t, events[2])

	unsubscribe()
	unsubscribe()
	_, err = c.SignIn(ctx, "acme@example.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, rec.all(), 3)
}

func TestClient_ErrorsDecodeToAPIError(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.SignIn(ctx, "nobody@example.com", "secret1")
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPCode)
	assert.Equal(t, apierrors.CodeInvalidCredentials, apiErr.Code)
	assert.Equal(t, "invalid login credentials", apiErr.Message)

	_, err = c.ListOffers(ctx, nil)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_RefreshesExpiredAccessToken(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.SignUp(ctx, "ana@example.com", "secret1", model.RoleSeeker)
	require.NoError(t, err)
	_, err = c.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	s := c.Session()
	s.AccessToken = "garbage"
	c.setSession(s)

	offers, err := c.ListOffers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, offers)
	assert.NotEqual(t, "garbage", c.Session().AccessToken)
}

func TestClient_ConcurrentCallsShareOneRefresh(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	rec := &recorder{}
	c.Subscribe(rec.listen)

	_, err := c.SignUp(ctx, "ana@example.com", "secret1", model.RoleSeeker)
	require.NoError(t, err)
	_, err = c.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	s := c.Session()
	s.AccessToken = "expired"
	c.setSession(s)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Profile(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	// The rotated token must still be live: a reused token would have
	// revoked the whole family on the server.
	require.NotNil(t, c.Session())
	require.NoError(t, c.Refresh(ctx))
	_, err = c.Profile(ctx)
	require.NoError(t, err)

	for _, identity := range rec.all() {
		assert.NotNil(t, identity)
	}
}

func TestClient_RejectedRefreshEndsSession(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	rec := &recorder{}

	_, err := c.SignUp(ctx, "ana@example.com", "secret1", model.RoleSeeker)
	require.NoError(t, err)
	_, err = c.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	c.Subscribe(rec.listen)

	s := c.Session()
	s.AccessToken = "expired"
	s.RefreshToken = "revoked"
	c.setSession(s)

	_, err = c.Profile(ctx)
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.CodeInvalidToken, apiErr.Code)
	assert.Nil(t, c.Session())

	events := rec.all()
	require.Len(t, events, 1)
	assert.Nil(t, events[0])

	_, err = c.Profile(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_OffersAndApplications(t *testing.T) {
	ctx := context.Background()
	srv, _ := apptest.NewServer(t)
	company := New(srv.URL, 5*time.Second)
	seeker := New(srv.URL, 5*time.Second)

	_, err := company.SignUp(ctx, "acme@example.com", "secret1", model.RoleCompany)
	require.NoError(t, err)
	res, err := company.SignIn(ctx, "acme@example.com", "secret1")
	require.NoError(t, err)
	_, err = seeker.SignUp(ctx, "ana@example.com", "secret1", model.RoleSeeker)
	require.NoError(t, err)
	_, err = seeker.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	offer, err := company.CreateOffer(ctx, "Go developer", "Backend work")
	require.NoError(t, err)

	companyID := res.User.ID
	mine, err := company.ListOffers(ctx, &companyID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got, err := seeker.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", got.Title)

	app, err := seeker.Apply(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, app.Status)

	apps, err := seeker.MyApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Offer)
	assert.Equal(t, "Go developer", apps[0].Offer.Title)

	rows, err := company.OfferApplications(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ana@example.com", rows[0].ApplicantEmail)

	moved, err := company.MoveApplication(ctx, offer.ID, app.UserID, model.StatusInterviewed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterviewed, moved.Status)
}
