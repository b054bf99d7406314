package access

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/jobboard/internal/model"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	identity := &model.Identity{ID: uuid.New(), Email: "x@y.z"}
	seeker := &model.Profile{ID: identity.ID, Role: model.RoleSeeker}
	company := &model.Profile{ID: identity.ID, Role: model.RoleCompany}
	own := identity.ID
	other := uuid.New()

	tests := []struct {
		name    string
		view    View
		subject Subject
		want    Decision
	}{
		{name: "anonymous home", view: ViewHome, want: RedirectTo(RouteLogin)},
		{name: "anonymous company", view: ViewCompanyDashboard, want: RedirectTo(RouteLogin)},
		{name: "home needs identity only", view: ViewHome, subject: Subject{Identity: identity}, want: Allow()},
		{name: "profile needs identity only", view: ViewProfile, subject: Subject{Identity: identity}, want: Allow()},
		{name: "dashboard needs identity only", view: ViewDashboard, subject: Subject{Identity: identity, ProfileErr: errors.New("boom")}, want: Allow()},
		{name: "seeker on user dashboard", view: ViewUserDashboard, subject: Subject{Identity: identity, Profile: seeker}, want: Allow()},
		{name: "company on user dashboard", view: ViewUserDashboard, subject: Subject{Identity: identity, Profile: company}, want: RedirectTo(RouteLogin)},
		{name: "company on user jobs", view: ViewUserJobs, subject: Subject{Identity: identity, Profile: company}, want: RedirectTo(RouteLogin)},
		{name: "seeker on company dashboard", view: ViewCompanyDashboard, subject: Subject{Identity: identity, Profile: seeker}, want: RedirectTo(RouteLogin)},
		{name: "seeker on create job", view: ViewCreateJob, subject: Subject{Identity: identity, Profile: seeker}, want: RedirectTo(string(ViewUserDashboard))},
		{name: "company on create job", view: ViewCreateJob, subject: Subject{Identity: identity, Profile: company}, want: Allow()},
		{name: "seeker on company job", view: ViewCompanyJob, subject: Subject{Identity: identity, Profile: seeker}, want: RedirectTo(RouteLogin)},
		{name: "owner on company job", view: ViewCompanyJob, subject: Subject{Identity: identity, Profile: company, ResourceOwner: &own}, want: Allow()},
		{name: "other company on job", view: ViewCompanyJob, subject: Subject{Identity: identity, Profile: company, ResourceOwner: &other}, want: RedirectTo(string(ViewCompanyDashboard))},
		{name: "profile lookup failed", view: ViewCreateJob, subject: Subject{Identity: identity, ProfileErr: errors.New("boom")}, want: RedirectTo(string(ViewUserDashboard))},
		{name: "profile missing", view: ViewCompanyDashboard, subject: Subject{Identity: identity}, want: RedirectTo(RouteLogin)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Authorize(tt.view, tt.subject))
		})
	}
}

func TestLanding(t *testing.T) {
	assert.Equal(t, "/dashboard/company", Landing(model.RoleCompany))
	assert.Equal(t, "/dashboard/user", Landing(model.RoleSeeker))
}

func TestJobRoute(t *testing.T) {
	id := uuid.MustParse("7f1d2c8e-0000-4000-8000-000000000001")
	assert.Equal(t, "/dashboard/company/job/7f1d2c8e-0000-4000-8000-000000000001", JobRoute(id))
}
