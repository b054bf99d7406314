package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantCode     string
		wantRedirect string
	}{
		{name: "api error", err: apierrors.NewErrAlreadyApplied("x"), wantStatus: http.StatusConflict, wantCode: apierrors.CodeAlreadyApplied},
		{name: "wrapped api error", err: fmt.Errorf("outer: %w", apierrors.NewErrForbidden("/dashboard/company")), wantStatus: http.StatusForbidden, wantCode: apierrors.CodeForbidden, wantRedirect: "/dashboard/company"},
		{name: "not found", err: model.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "anything else", err: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: apierrors.CodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			handleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.wantRedirect, body["redirect_to"])
		})
	}
}
