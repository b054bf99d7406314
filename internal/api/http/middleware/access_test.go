package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobboard/internal/access"
	httpctx "github.com/dtroode/jobboard/internal/api/http/context"
	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/model"
)

func TestRequireView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		view         access.View
		profile      *model.Profile
		wantStatus   int
		wantRedirect string
	}{
		{name: "company creates job", view: access.ViewCreateJob, profile: &model.Profile{Role: model.RoleCompany}, wantStatus: http.StatusNoContent},
		{name: "seeker creates job", view: access.ViewCreateJob, profile: &model.Profile{Role: model.RoleSeeker}, wantStatus: http.StatusForbidden, wantRedirect: "/dashboard/user"},
		{name: "company applies", view: access.ViewUserDashboard, profile: &model.Profile{Role: model.RoleCompany}, wantStatus: http.StatusForbidden, wantRedirect: "/auth/login"},
		{name: "no profile", view: access.ViewCompanyJob, wantStatus: http.StatusForbidden, wantRedirect: "/auth/login"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := httpctx.NewManager()
			userID := uuid.New()

			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				ctx := cm.SetUserIDToContext(c.Request.Context(), userID)
				if tt.profile != nil {
					p := *tt.profile
					p.ID = userID
					ctx = cm.SetProfileToContext(ctx, p)
				}
				c.Request = c.Request.WithContext(ctx)
			}, RequireView(tt.view, cm), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantRedirect != "" {
				var body apierrors.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, apierrors.CodeForbidden, body.Code)
				assert.Equal(t, tt.wantRedirect, body.RedirectTo)
			}
		})
	}
}
