package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/model"
)

func callerID(c *gin.Context, cm model.ContextManager) (uuid.UUID, error) {
	userID, ok := cm.GetUserIDFromContext(c.Request.Context())
	if !ok {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}
	return userID, nil
}

func callerProfile(c *gin.Context, cm model.ContextManager) (model.Profile, error) {
	userID, err := callerID(c, cm)
	if err != nil {
		return model.Profile{}, err
	}
	profile, ok := cm.GetProfileFromContext(c.Request.Context())
	if !ok {
		return model.Profile{}, apierrors.NewErrProfileNotFound(userID.String())
	}
	return profile, nil
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierrors.NewErrValidation("%s must be a UUID", name)
	}
	return id, nil
}
