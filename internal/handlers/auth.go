package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/issue-service/internal/config"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"github.com/SAP-F-2025/issue-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

const (
	principalKey = "user"
	userIDHeader = "X-User-ID"
)

var errMissingCredentials = errors.New("missing credentials")

// UserLookup is the slice of the directory the middleware needs.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// identityResolver turns request credentials into a directory user.
type identityResolver func(c *gin.Context, users UserLookup) (*models.User, error)

// AuthMiddleware authenticates the caller and stores the principal under
// "user" and its id under "user_id". Behind a gateway the header provider
// trusts X-User-ID; the casdoor provider verifies a bearer JWT.
func AuthMiddleware(cfg config.AuthConfig, users UserLookup, logger utils.Logger) gin.HandlerFunc {
	var resolve identityResolver = resolveFromHeader
	if cfg.Provider == "casdoor" {
		casdoorsdk.InitConfig(
			cfg.CasdoorEndpoint,
			cfg.CasdoorClientID,
			cfg.CasdoorClientSecret,
			cfg.CasdoorCertificate,
			cfg.CasdoorOrganization,
			cfg.CasdoorApplication,
		)
		resolve = resolveFromCasdoorToken
	}

	return func(c *gin.Context) {
		user, err := resolve(c, users)
		if err != nil {
			if !errors.Is(err, errMissingCredentials) {
				logger.Warn("Authentication failed", "path", c.Request.URL.Path, "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
				Code:    "UNAUTHORIZED",
			})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User account is inactive",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		c.Set(principalKey, user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

func resolveFromHeader(c *gin.Context, users UserLookup) (*models.User, error) {
	raw := strings.TrimSpace(c.GetHeader(userIDHeader))
	if raw == "" {
		return nil, errMissingCredentials
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	return lookup(users.GetUser(c.Request.Context(), uint(id)))
}

func resolveFromCasdoorToken(c *gin.Context, users UserLookup) (*models.User, error) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return nil, errMissingCredentials
	}

	claims, err := casdoorsdk.ParseJwtToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if claims.User.Email == "" {
		return nil, errors.New("token carries no email")
	}
	return lookup(users.GetUserByEmail(c.Request.Context(), claims.User.Email))
}

func lookup(user *models.User, err error) (*models.User, error) {
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, errors.New("unknown user")
		}
		return nil, err
	}
	return user, nil
}
