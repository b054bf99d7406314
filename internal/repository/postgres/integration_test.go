//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/jobboard/internal/config"
	"github.com/dtroode/jobboard/internal/model"
	repo "github.com/dtroode/jobboard/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "jobboard_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/jobboard_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), config.Database{DSN: dsn, MaxConns: 4, AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func signup(t *testing.T, conn *repo.Connection, email string, role model.Role) (model.User, model.Profile) {
	t.Helper()
	now := time.Now()
	u, p, err := repo.NewUserRepository(conn).CreateWithProfile(context.Background(), model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$a2V5",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, role)
	require.NoError(t, err)
	return u, p
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	pr := repo.NewProfileRepository(conn)

	email := fmt.Sprintf("%s@example.com", uuid.NewString())
	u, p := signup(t, conn, email, model.RoleCompany)
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, model.RoleCompany, p.Role)

	byEmail, err := ur.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)

	profile, err := pr.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCompany, profile.Role)

	_, _, err = ur.CreateWithProfile(ctx, model.User{ID: uuid.New(), Email: email, PasswordHash: "x"}, model.RoleSeeker)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = ur.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = pr.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOfferAndApplicationRepositories(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	or := repo.NewOfferRepository(conn)
	ar := repo.NewApplicationRepository(conn)

	company, _ := signup(t, conn, uuid.NewString()+"@corp.example", model.RoleCompany)
	seeker, _ := signup(t, conn, uuid.NewString()+"@mail.example", model.RoleSeeker)

	offer, err := or.Create(ctx, model.JobOffer{
		ID:          uuid.New(),
		CompanyID:   company.ID,
		Title:       "Dev",
		Description: "X",
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, offer.CreatedAt.IsZero())

	got, err := or.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", got.Title)

	byCompany, err := or.List(ctx, model.OfferFilter{CompanyID: &company.ID})
	require.NoError(t, err)
	require.Len(t, byCompany, 1)

	all, err := or.List(ctx, model.OfferFilter{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 1)

	app, err := ar.Create(ctx, model.Application{
		ID:        uuid.New(),
		JobID:     offer.ID,
		UserID:    seeker.ID,
		Status:    model.StatusReceived,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, app.Status)

	_, err = ar.Create(ctx, model.Application{
		ID:        uuid.New(),
		JobID:     offer.ID,
		UserID:    seeker.ID,
		Status:    model.StatusReceived,
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	mine, err := ar.ListByUser(ctx, seeker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Offer)
	assert.Equal(t, "Dev", mine[0].Offer.Title)

	board, err := ar.ListByJob(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, seeker.Email, board[0].ApplicantEmail)

	moved, err := ar.UpdateStatus(ctx, offer.ID, seeker.ID, model.StatusInterviewed)
	require.NoError(t, err)
	assert.Equal(t, model.Status("Entrevistado"), moved.Status)

	_, err = ar.UpdateStatus(ctx, offer.ID, uuid.New(), model.StatusInterviewed)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, ar.SetResumeKey(ctx, app.ID, "resumes/"+app.ID.String()))
	withResume, err := ar.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, withResume.HasResume)

	assert.ErrorIs(t, ar.SetResumeKey(ctx, uuid.New(), "k"), model.ErrNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	rr := repo.NewRefreshTokenRepository(conn)

	u, _ := signup(t, conn, uuid.NewString()+"@mail.example", model.RoleSeeker)
	now := time.Now()

	live := model.RefreshToken{JTI: uuid.NewString(), UserID: u.ID, TokenHash: []byte("h1"), IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	expired := model.RefreshToken{JTI: uuid.NewString(), UserID: u.ID, TokenHash: []byte("h2"), IssuedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour)}
	require.NoError(t, rr.Create(ctx, live))
	require.NoError(t, rr.Create(ctx, expired))

	got, err := rr.GetByJTI(ctx, live.JTI)
	require.NoError(t, err)
	assert.Nil(t, got.RevokedAt)

	deleted, err := rr.DeleteStale(ctx, now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	_, err = rr.GetByJTI(ctx, expired.JTI)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, rr.Create(ctx, live), model.ErrAlreadyExists)

	revoked, err := rr.RevokeByJTI(ctx, live.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)
	got, err = rr.GetByJTI(ctx, live.JTI)
	require.NoError(t, err)
	assert.NotNil(t, got.RevokedAt)

	revoked, err = rr.RevokeByJTI(ctx, live.JTI)
	require.NoError(t, err)
	assert.False(t, revoked)

	n, err := rr.RevokeAllByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
