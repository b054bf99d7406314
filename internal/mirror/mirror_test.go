package mirror

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobboard/internal/app/apptest"
	"github.com/dtroode/jobboard/internal/client"
	"github.com/dtroode/jobboard/internal/model"
	"github.com/dtroode/jobboard/internal/testutil"
)

type fakeBackend struct {
	mu         sync.Mutex
	offers     []model.JobOffer
	apps       []model.Application
	offerCalls int
	appCalls   int
	applyErr   error
	createErr  error
	applyGate  chan struct{}
	lastFilter *uuid.UUID
}

func (b *fakeBackend) ListOffers(_ context.Context, companyID *uuid.UUID) ([]model.JobOffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offerCalls++
	b.lastFilter = companyID
	return append([]model.JobOffer(nil), b.offers...), nil
}

func (b *fakeBackend) CreateOffer(_ context.Context, title, description string) (model.JobOffer, error) {
	if b.createErr != nil {
		return model.JobOffer{}, b.createErr
	}
	return model.JobOffer{ID: uuid.New(), Title: title, Description: description}, nil
}

func (b *fakeBackend) Apply(_ context.Context, jobID uuid.UUID) (model.Application, error) {
	if b.applyGate != nil {
		<-b.applyGate
	}
	if b.applyErr != nil {
		return model.Application{}, b.applyErr
	}
	return model.Application{ID: uuid.New(), JobID: jobID, Status: model.StatusReceived}, nil
}

func (b *fakeBackend) MyApplications(context.Context) ([]model.Application, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appCalls++
	return append([]model.Application(nil), b.apps...), nil
}

var (
	seeker  = model.Profile{ID: uuid.New(), Role: model.RoleSeeker}
	company = model.Profile{ID: uuid.New(), Role: model.RoleCompany}
)

func TestMirror_Load(t *testing.T) {
	t.Parallel()

	job := model.JobOffer{ID: uuid.New(), Title: "Dev"}

	t.Run("seeker loads offers and applications", func(t *testing.T) {
		t.Parallel()
		b := &fakeBackend{
			offers: []model.JobOffer{job},
			apps:   []model.Application{{ID: uuid.New(), JobID: job.ID}},
		}
		m := New(b, seeker, testutil.MakeNoopLogger())

		snap, err := m.Load(context.Background(), Filter{})
		require.NoError(t, err)
		assert.Len(t, snap.Offers, 1)
		assert.Len(t, snap.Applications, 1)
		assert.True(t, snap.Applied[job.ID])
		assert.Equal(t, 1, b.offerCalls)
		assert.Equal(t, 1, b.appCalls)
	})

	t.Run("company skips applications and filters", func(t *testing.T) {
		t.Parallel()
		b := &fakeBackend{offers: []model.JobOffer{job}}
		m := New(b, company, testutil.MakeNoopLogger())

		_, err := m.Load(context.Background(), Filter{CompanyID: &company.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, b.appCalls)
		require.NotNil(t, b.lastFilter)
		assert.Equal(t, company.ID, *b.lastFilter)
	})
}

func TestMirror_PostOffer(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	m := New(b, company, testutil.MakeNoopLogger())

	offer, err := m.PostOffer(context.Background(), "Dev", "Go")
	require.NoError(t, err)
	assert.Equal(t, []model.JobOffer{offer}, m.Snapshot().Offers)

	b.createErr = assert.AnError
	_, err = m.PostOffer(context.Background(), "Ops", "k8s")
	require.ErrorIs(t, err, assert.AnError)
	assert.Len(t, m.Snapshot().Offers, 1)
}

func TestMirror_Apply(t *testing.T) {
	t.Parallel()

	job := model.JobOffer{ID: uuid.New(), Title: "Dev"}

	t.Run("success marks applied and rejects repeat", func(t *testing.T) {
		t.Parallel()
		m := New(&fakeBackend{offers: []model.JobOffer{job}}, seeker, testutil.MakeNoopLogger())
		_, err := m.Load(context.Background(), Filter{})
		require.NoError(t, err)

		app, err := m.Apply(context.Background(), job.ID)
		require.NoError(t, err)
		require.NotNil(t, app.Offer)
		assert.Equal(t, "Dev", app.Offer.Title)
		assert.True(t, m.HasApplied(job.ID))
		assert.Len(t, m.Snapshot().Applications, 1)

		_, err = m.Apply(context.Background(), job.ID)
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})

	t.Run("failure leaves state unchanged", func(t *testing.T) {
		t.Parallel()
		m := New(&fakeBackend{applyErr: assert.AnError}, seeker, testutil.MakeNoopLogger())

		_, err := m.Apply(context.Background(), job.ID)
		require.ErrorIs(t, err, assert.AnError)
		assert.False(t, m.HasApplied(job.ID))
		assert.Empty(t, m.Snapshot().Applications)
	})

	t.Run("in-flight apply rejects concurrent apply", func(t *testing.T) {
		t.Parallel()
		gate := make(chan struct{})
		m := New(&fakeBackend{applyGate: gate}, seeker, testutil.MakeNoopLogger())

		done := make(chan error, 1)
		go func() {
			_, err := m.Apply(context.Background(), job.ID)
			done <- err
		}()

		assert.Eventually(t, func() bool {
			m.mu.Lock()
			defer m.mu.Unlock()
			return m.inFlight[job.ID]
		}, time.Second, 5*time.Millisecond)

		_, err := m.Apply(context.Background(), job.ID)
		assert.ErrorIs(t, err, ErrAlreadyApplied)

		close(gate)
		require.NoError(t, <-done)
		assert.True(t, m.HasApplied(job.ID))
	})
}

func TestMirror_WithClient(t *testing.T) {
	ctx := context.Background()
	srv, _ := apptest.NewServer(t)

	companyClient := client.New(srv.URL, 5*time.Second)
	_, err := companyClient.SignUp(ctx, "acme@example.com", "secret1", model.RoleCompany)
	require.NoError(t, err)
	cs, err := companyClient.SignIn(ctx, "acme@example.com", "secret1")
	require.NoError(t, err)

	companyMirror := New(companyClient, *cs.Profile, testutil.MakeNoopLogger())
	offer, err := companyMirror.PostOffer(ctx, "Go developer", "Backend")
	require.NoError(t, err)

	seekerClient := client.New(srv.URL, 5*time.Second)
	_, err = seekerClient.SignUp(ctx, "ana@example.com", "secret1", model.RoleSeeker)
	require.NoError(t, err)
	ss, err := seekerClient.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	seekerMirror := New(seekerClient, *ss.Profile, testutil.MakeNoopLogger())
	snap, err := seekerMirror.Load(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, snap.Offers, 1)
	assert.False(t, snap.Applied[offer.ID])

	_, err = seekerMirror.Apply(ctx, offer.ID)
	require.NoError(t, err)

	reloaded := New(seekerClient, *ss.Profile, testutil.MakeNoopLogger())
	snap, err = reloaded.Load(ctx, Filter{})
	require.NoError(t, err)
	assert.True(t, snap.Applied[offer.ID])

	_, err = reloaded.Apply(ctx, offer.ID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}
