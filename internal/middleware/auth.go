package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig describes how access tokens from the identity provider are verified.
type AuthConfig struct {
	Secret       string
	Issuer       string // checked when non-empty
	CompanyClaim string // claim carrying the caller's company, default "company_id"
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the user (subject) and company claims in the request context.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	companyClaim := cfg.CompanyClaim
	if companyClaim == "" {
		companyClaim = "company_id"
	}
	var opts []jwt.ParserOption
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn().Msg("Authorization header missing")
			abortWithError(c, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn().Msg("Authorization header format invalid")
			abortWithError(c, http.StatusUnauthorized, "Unauthorized", "Authorization header format must be Bearer {token}")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			// Check the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.Secret), nil
		}, opts...)

		if err != nil || !token.Valid {
			logger.Warn().Err(err).Msg("Invalid token")
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			abortWithError(c, http.StatusUnauthorized, "Unauthorized", msg)
			return
		}

		userID, _ := claims.GetSubject()
		companyID, _ := claims[companyClaim].(string)
		if userID == "" || companyID == "" {
			logger.Error().Str("company_claim", companyClaim).Msg("Subject or company claim missing from valid token")
			abortWithError(c, http.StatusUnauthorized, "Unauthorized", "Invalid token claims")
			return
		}

		enriched := logger.With().Str("user_id", userID).Str("company_id", companyID).Logger()
		ctx := WithIdentity(c.Request.Context(), userID, companyID)
		c.Request = c.Request.WithContext(enriched.WithContext(ctx))

		c.Next()
	}
}
