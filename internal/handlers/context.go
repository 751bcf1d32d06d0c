package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/middleware"
)

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func currentCompanyID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.ContextCompanyID)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func currentRole(c *gin.Context) string {
	raw, _ := c.Get(middleware.ContextRole)
	role, _ := raw.(string)
	return role
}
