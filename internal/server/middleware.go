package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/petalbook/internal/orgcontext"
)

const bearerPrefix = "Bearer "

// AuthRequired verifies the Authorization bearer token and attaches the
// caller identity to the request context. The org role on the identity comes
// from the freshly loaded user row, so a role change takes effect on the next
// request even while older access tokens are still live.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.UserFromAccessToken(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		identity := orgcontext.Identity{
			UserID:     user.ID,
			Email:      user.Email,
			SystemRole: user.Role,
			OrgID:      user.OrganizationID,
			OrgRole:    user.OrgRole,
		}
		c.Request = c.Request.WithContext(orgcontext.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

func (s *Server) identity(c *gin.Context) (orgcontext.Identity, bool) {
	return orgcontext.IdentityFromContext(c.Request.Context())
}
