package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/petalbook/internal/authorization"
	weekdomain "github.com/smallbiznis/petalbook/internal/week/domain"
	withdrawaldomain "github.com/smallbiznis/petalbook/internal/withdrawal/domain"
)

func (s *Server) ListWeeks(c *gin.Context) {
	weeks, err := s.weeksvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, weeks)
}

func (s *Server) CreateWeek(c *gin.Context) {
	var req weekdomain.CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.weeksvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) GetWeek(c *gin.Context) {
	id, ok := snowflakeParam(c, "id")
	if !ok {
		return
	}

	found, err := s.weeksvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) UpdateWeek(c *gin.Context) {
	id, ok := snowflakeParam(c, "id")
	if !ok {
		return
	}

	var req weekdomain.UpdateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updated, err := s.weeksvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteWeek(c *gin.Context) {
	id, ok := snowflakeParam(c, "id")
	if !ok {
		return
	}

	if err := s.weeksvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetWeekSummary(c *gin.Context) {
	summary, err := s.weeksvc.GetSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type dashboardResponse struct {
	Weeks             []weekdomain.Week         `json:"weeks"`
	Summary           weekdomain.Summary        `json:"summary"`
	WithdrawalSummary *withdrawaldomain.Summary `json:"withdrawalSummary"`
}

// GetDashboard bundles the week list, the sales summary and the withdrawal
// summary into one response. Roles without withdrawal access still get the
// sales half; the withdrawal summary is null for them rather than failing
// the whole request.
func (s *Server) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	weeks, err := s.weeksvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.weeksvc.GetSummary(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := dashboardResponse{
		Weeks:   weeks,
		Summary: summary,
	}

	withdrawalSummary, err := s.withdrawalsvc.GetSummary(ctx)
	switch {
	case err == nil:
		resp.WithdrawalSummary = &withdrawalSummary
	case errors.Is(err, authorization.ErrForbidden):
		// leave it null
	default:
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
