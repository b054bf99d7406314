package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/model"
)

// RequireView gates a route group with the same decision the pages use.
// It must run after Authenticate.
func RequireView(view access.View, contextManager model.ContextManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var subject access.Subject
		if userID, ok := contextManager.GetUserIDFromContext(ctx); ok {
			subject.Identity = &model.Identity{ID: userID}
		}
		if profile, ok := contextManager.GetProfileFromContext(ctx); ok {
			subject.Profile = &profile
		}

		if d := access.Authorize(view, subject); !d.Allowed {
			abortWithError(c, apierrors.NewErrForbidden(d.RedirectTo))
			return
		}

		c.Next()
	}
}
