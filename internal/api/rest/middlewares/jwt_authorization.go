package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/restaurantchain/order-backend/internal/api/rest/response"
	"github.com/restaurantchain/order-backend/internal/enforcer"
	"github.com/restaurantchain/order-backend/internal/keyfetcher"
)

const (
	authHeaderMissingMessage       = "authorization header missing"
	invalidAuthHeaderFormatMessage = "invalid authorization header format"
	internalServerErrorMessage     = "internal server error"
	invalidTokenMessage            = "invalid token"
	forbiddenMessage               = "forbidden"
)

// TokenValidation lists the registered claims a token must carry besides a valid signature
type TokenValidation struct {
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// JWTAuthorizationMiddleware handles JWT token authorization, validating tokens and enforcing access policies.
// Access is decided on the role claim of the token, the request path and the method.
type JWTAuthorizationMiddleware struct {
	enforcer         enforcer.Enforcer
	publicKeyFetcher keyfetcher.PublicKeyFetcher
	parserOptions    []jwt.ParserOption
	logger           *slog.Logger
}

// Handle processes incoming HTTP requests, applying JWT authorization by validating tokens and enforcing access policies.
func (m *JWTAuthorizationMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.JSONErrorResponse(w, http.StatusUnauthorized, authHeaderMissingMessage)
			return
		}

		token, err := extractToken(authHeader)
		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to extract token", "error", err)
			response.JSONErrorResponse(w, http.StatusUnauthorized, invalidAuthHeaderFormatMessage)
			return
		}

		publicKey, err := m.publicKeyFetcher.FetchPublicKey()
		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to fetch public key", "error", err)
			response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
			return
		}

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
			return publicKey, nil
		}, m.parserOptions...)

		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to parse token", "error", err)
			response.JSONErrorResponse(w, http.StatusUnauthorized, invalidTokenMessage)
			return
		}

		sub, err := claims.GetSubject()
		if sub == "" || err != nil {
			m.logger.ErrorContext(r.Context(), "failed to get subject from token claims")
			response.JSONErrorResponse(w, http.StatusUnauthorized, invalidTokenMessage)
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			m.logger.ErrorContext(r.Context(), "failed to get role from token claims", "subject", sub)
			response.JSONErrorResponse(w, http.StatusUnauthorized, invalidTokenMessage)
			return
		}

		ok, err := m.enforcer.Enforce(
			r.Context(),
			&enforcer.AccessRequest{
				Subject:  role,
				Resource: r.URL.Path,
				Action:   r.Method,
			},
		)

		if err != nil || !ok {
			m.logger.ErrorContext(r.Context(), "failed to enforce access policy",
				"error", err,
				"subject", sub,
				"role", role,
				"path", r.URL.Path,
				"method", r.Method,
			)
			response.JSONErrorResponse(w, http.StatusForbidden, forbiddenMessage)
			return
		}

		ctx := context.WithValue(r.Context(), subjectContextKey, sub)
		ctx = context.WithValue(ctx, roleContextKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken extracts a Bearer token from the Authorization header.
// Returns the extracted token or an error if the header format is invalid.
func extractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

// NewJWTAuthorizationMiddleware returns a new instance of JWTAuthorizationMiddleware with the given enforcer and public key fetcher.
// Only RS512 signed tokens are accepted.
func NewJWTAuthorizationMiddleware(
	e enforcer.Enforcer,
	publicKeyFetcher keyfetcher.PublicKeyFetcher,
	validation TokenValidation,
	logger *slog.Logger,
) Middleware {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(validation.Leeway),
	}
	if validation.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(validation.Issuer))
	}
	if validation.Audience != "" {
		opts = append(opts, jwt.WithAudience(validation.Audience))
	}

	return &JWTAuthorizationMiddleware{
		enforcer:         e,
		publicKeyFetcher: publicKeyFetcher,
		parserOptions:    opts,
		logger:           logger,
	}
}
