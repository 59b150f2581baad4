package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
)

// Register creates the account, provisions its organization and signs the
// caller in. The refresh token travels only in the cookie; the body carries
// the access token and the user.
func (s *Server) Register(c *gin.Context) {
	var req authdomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RefreshToken)
	result.RefreshToken = ""
	c.JSON(http.StatusCreated, result)
}

func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RefreshToken)
	result.RefreshToken = ""
	c.JSON(http.StatusOK, result)
}

// Refresh rotates the token pair. The presented refresh token comes from the
// cookie, never from the request body.
func (s *Server) Refresh(c *gin.Context) {
	raw, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, authdomain.ErrInvalidRefreshToken)
		return
	}

	pair, err := s.authsvc.Refresh(c.Request.Context(), raw)
	if err != nil {
		s.sessions.Clear(c)
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

func (s *Server) Logout(c *gin.Context) {
	caller, ok := s.identity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authsvc.Logout(c.Request.Context(), caller.UserID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (s *Server) ChangePassword(c *gin.Context) {
	caller, ok := s.identity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req authdomain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.authsvc.ChangePassword(c.Request.Context(), caller.UserID, req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}

func (s *Server) Profile(c *gin.Context) {
	caller, ok := s.identity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.authsvc.Profile(c.Request.Context(), caller.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
