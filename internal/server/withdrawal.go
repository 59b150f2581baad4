package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	withdrawaldomain "github.com/smallbiznis/petalbook/internal/withdrawal/domain"
)

func (s *Server) ListWithdrawals(c *gin.Context) {
	withdrawals, err := s.withdrawalsvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

func (s *Server) CreateWithdrawal(c *gin.Context) {
	var req withdrawaldomain.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.withdrawalsvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) GetWithdrawal(c *gin.Context) {
	id, ok := snowflakeParam(c, "id")
	if !ok {
		return
	}

	found, err := s.withdrawalsvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) DeleteWithdrawal(c *gin.Context) {
	id, ok := snowflakeParam(c, "id")
	if !ok {
		return
	}

	if err := s.withdrawalsvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetWithdrawalSummary(c *gin.Context) {
	summary, err := s.withdrawalsvc.GetSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
