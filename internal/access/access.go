// Package access decides which page routes and API calls an identity may
// reach and where it is sent otherwise.
package access

import (
	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

// View is a gated page route.
type View string

const (
	ViewHome             View = "/"
	ViewDashboard        View = "/dashboard"
	ViewProfile          View = "/profile"
	ViewUserDashboard    View = "/dashboard/user"
	ViewUserJobs         View = "/dashboard/user/jobs"
	ViewCompanyDashboard View = "/dashboard/company"
	ViewCreateJob        View = "/dashboard/company/create-job"
	// ViewCompanyJob is the board of a single offer, see JobRoute.
	ViewCompanyJob View = "/dashboard/company/job"
)

const (
	RouteLogin    = "/auth/login"
	RouteRegister = "/auth/register"
)

// JobRoute is the concrete route of the board for one offer.
func JobRoute(jobID uuid.UUID) string {
	return string(ViewCompanyJob) + "/" + jobID.String()
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(route string) Decision {
	return Decision{RedirectTo: route}
}

// Subject is everything Authorize looks at.
type Subject struct {
	Identity   *model.Identity
	Profile    *model.Profile
	ProfileErr error
	// ResourceOwner is the company owning the viewed offer, when known.
	ResourceOwner *uuid.UUID
}

type rule struct {
	role      model.Role
	otherwise string
}

// Views missing here only need an identity.
var rules = map[View]rule{
	ViewUserDashboard:    {role: model.RoleSeeker, otherwise: RouteLogin},
	ViewUserJobs:         {role: model.RoleSeeker, otherwise: RouteLogin},
	ViewCompanyDashboard: {role: model.RoleCompany, otherwise: RouteLogin},
	ViewCreateJob:        {role: model.RoleCompany, otherwise: string(ViewUserDashboard)},
	ViewCompanyJob:       {role: model.RoleCompany, otherwise: RouteLogin},
}

// Authorize is the only place role and ownership rules live. A failed
// profile lookup is treated as a wrong role.
func Authorize(view View, s Subject) Decision {
	if s.Identity == nil {
		return RedirectTo(RouteLogin)
	}

	r, gated := rules[view]
	if !gated {
		return Allow()
	}

	if s.ProfileErr != nil || s.Profile == nil || s.Profile.Role != r.role {
		return RedirectTo(r.otherwise)
	}

	if view == ViewCompanyJob && s.ResourceOwner != nil && *s.ResourceOwner != s.Profile.ID {
		return RedirectTo(string(ViewCompanyDashboard))
	}

	return Allow()
}

// Landing is where a profile goes after signing in.
func Landing(role model.Role) string {
	if role == model.RoleCompany {
		return string(ViewCompanyDashboard)
	}
	return string(ViewUserDashboard)
}
