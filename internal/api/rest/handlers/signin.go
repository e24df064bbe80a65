package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/restaurantchain/order-backend/internal/api/rest/response"
	"github.com/restaurantchain/order-backend/internal/authn"
	"github.com/restaurantchain/order-backend/internal/keyfetcher"
)

const (
	defaultTokenTTL                  = time.Hour
	invalidRequestBodyMessage        = "invalid request body"
	invalidUsernameOrPasswordMessage = "invalid username or password"
	internalServerErrorMessage       = "internal server error"
)

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenOptions describes the tokens issued on sign-in
type TokenOptions struct {
	Issuer   string
	Audience string
	TTL      time.Duration
}

// SignInHandler processes user sign-in requests, authenticates credentials, and generates JWT tokens.
type SignInHandler struct {
	authenticator     authn.Authenticator
	privateKeyFetcher keyfetcher.PrivateKeyFetcher
	options           TokenOptions
	logger            *slog.Logger
}

// ServeHTTP handles HTTP requests for user sign-in, authenticates users and generates JWT tokens on successful login.
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := new(SignInRequest)
	decodeErr := json.NewDecoder(r.Body).Decode(req)
	if decodeErr != nil || req.Username == "" {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	logger := h.logger.With("username", req.Username)
	authenticatedUser, authError := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if authError != nil {
		logger.ErrorContext(r.Context(), "failed to authenticate user", "error", authError)
		response.JSONErrorResponse(w, http.StatusUnauthorized, invalidUsernameOrPasswordMessage)
		return
	}

	token, jwtError := h.generateJWT(authenticatedUser)
	if jwtError != nil {
		logger.ErrorContext(r.Context(), "failed to generate JWT", "error", jwtError)
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
		return
	}

	logger.InfoContext(r.Context(), "user signed in", "role", authenticatedUser.Role)
	response.JSONResponse(w, http.StatusOK, map[string]string{"token": token})
}

// generateJWT generates an RS512 signed token carrying the user's name and role.
func (h *SignInHandler) generateJWT(user *authn.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(h.options.TTL).Unix(),
	}
	if h.options.Issuer != "" {
		claims["iss"] = h.options.Issuer
	}
	if h.options.Audience != "" {
		claims["aud"] = h.options.Audience
	}

	privateKey, jwtError := h.privateKeyFetcher.FetchPrivateKey()
	if jwtError != nil {
		return "", jwtError
	}

	tokenString, signError := jwt.NewWithClaims(jwt.SigningMethodRS512, claims).SignedString(privateKey)
	if signError != nil {
		return "", signError
	}

	return tokenString, nil
}

// NewSignInHandler creates a new HTTP handler for user sign-in, using the provided authenticator and private key fetcher.
func NewSignInHandler(
	authenticator authn.Authenticator,
	privateKeyFetcher keyfetcher.PrivateKeyFetcher,
	options TokenOptions,
	logger *slog.Logger,
) http.Handler {
	if options.TTL <= 0 {
		options.TTL = defaultTokenTTL
	}

	return &SignInHandler{
		authenticator:     authenticator,
		privateKeyFetcher: privateKeyFetcher,
		options:           options,
		logger:            logger,
	}
}
