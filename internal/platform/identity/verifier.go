package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/astralnotes/astral-backend/internal/platform/envutil"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

// Verifier resolves an opaque bearer token to the user id that owns it.
// Verification fails closed: any transport error, rejection, or body without
// a resolvable id is an error.
type Verifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

var ErrInvalidToken = errors.New("invalid token")

// NewVerifierFromEnv picks the verification mode. When IDENTITY_JWT_SECRET is
// set the provider's access tokens are verified locally (they are HS256 JWTs
// signed with the project secret); otherwise each token is resolved through
// the provider's user endpoint.
func NewVerifierFromEnv(log *logger.Logger) (Verifier, error) {
	if secret := envutil.String("IDENTITY_JWT_SECRET", ""); secret != "" {
		return NewLocalVerifier(log, secret), nil
	}
	baseURL := envutil.String("IDENTITY_BASE_URL", "")
	if baseURL == "" {
		return nil, fmt.Errorf("missing IDENTITY_BASE_URL (or IDENTITY_JWT_SECRET for local verification)")
	}
	return NewRemoteVerifier(log, baseURL, envutil.String("IDENTITY_API_KEY", "")), nil
}

type remoteVerifier struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemoteVerifier(log *logger.Logger, baseURL, apiKey string) Verifier {
	timeoutSec := envutil.Int("IDENTITY_TIMEOUT_SECONDS", 10)
	return &remoteVerifier{
		log:        log.With("client", "IdentityVerifier"),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type identityUser struct {
	ID   string `json:"id"`
	User *struct {
		ID string `json:"id"`
	} `json:"user,omitempty"`
}

func (v *remoteVerifier) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, ErrInvalidToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/user", nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("identity provider call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return uuid.Nil, fmt.Errorf("read identity response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		v.log.Debug("identity provider rejected token", "status", resp.StatusCode)
		return uuid.Nil, fmt.Errorf("%w: identity provider returned %s", ErrInvalidToken, strconv.Itoa(resp.StatusCode))
	}

	var u identityUser
	if err := json.Unmarshal(body, &u); err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed identity response", ErrInvalidToken)
	}
	rawID := u.ID
	if rawID == "" && u.User != nil {
		rawID = u.User.ID
	}
	userID, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: no resolvable user id", ErrInvalidToken)
	}
	return userID, nil
}

type localVerifier struct {
	log    *logger.Logger
	secret []byte
}

func NewLocalVerifier(log *logger.Logger, secret string) Verifier {
	return &localVerifier{log: log.With("client", "IdentityVerifier"), secret: []byte(secret)}
}

func (v *localVerifier) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}
	return userID, nil
}
