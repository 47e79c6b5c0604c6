// Package identity provides the Firebase-backed implementation of the
// identity provider collaborator.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"atlas/config"
	"atlas/internal/domain/entity"
	"atlas/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const defaultAuthEndpoint = "https://identitytoolkit.googleapis.com/v1"

// firebaseIdentity implements service.IdentityProvider on top of the Firebase
// Admin SDK plus the Identity Toolkit REST API. The Admin SDK covers account
// creation and session revocation; password verification is only reachable
// through the REST endpoint, keyed by the project's web API key.
type firebaseIdentity struct {
	auth       *fbauth.Client
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFirebaseIdentity creates a Firebase identity provider instance.
func NewFirebaseIdentity(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.IdentityProvider, error) {
	if cfg.Firebase == nil {
		return nil, errors.New("firebase configuration is required")
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get Firebase auth client")
	}

	endpoint := cfg.Firebase.AuthEndpoint
	if endpoint == "" {
		endpoint = defaultAuthEndpoint
	}

	return &firebaseIdentity{
		auth:       authClient,
		apiKey:     cfg.Firebase.WebAPIKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// SignUp creates a new account through the Admin SDK.
func (s *firebaseIdentity) SignUp(ctx context.Context, input *service.SignUpInput) (*entity.Principal, error) {
	params := (&fbauth.UserToCreate{}).
		Email(input.Email).
		Password(input.Password)
	if input.DisplayName != "" {
		params = params.DisplayName(input.DisplayName)
	}

	record, err := s.auth.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return nil, service.ErrEmailAlreadyExists
		}

		return nil, errors.Wrap(service.ErrIdentityUnavailable, err.Error())
	}

	return principalFromRecord(record), nil
}

// signInResponse is the subset of the Identity Toolkit response we consume.
type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type signInErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn verifies an email/password pair against the Identity Toolkit
// accounts:signInWithPassword endpoint.
func (s *firebaseIdentity) SignIn(ctx context.Context, email, password string) (*entity.Principal, error) {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	url := s.endpoint + "/accounts:signInWithPassword?key=" + s.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(service.ErrIdentityUnavailable, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(service.ErrIdentityUnavailable, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, s.mapSignInError(resp.StatusCode, body)
	}

	var signIn signInResponse
	if err := json.Unmarshal(body, &signIn); err != nil {
		return nil, errors.Wrap(service.ErrIdentityUnavailable, err.Error())
	}

	return &entity.Principal{
		UID:         signIn.LocalID,
		Email:       signIn.Email,
		DisplayName: signIn.DisplayName,
	}, nil
}

// Revoke invalidates all provider-side refresh tokens for a principal.
func (s *firebaseIdentity) Revoke(ctx context.Context, uid string) error {
	if err := s.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return errors.Wrap(service.ErrIdentityUnavailable, err.Error())
	}

	return nil
}

func (s *firebaseIdentity) mapSignInError(statusCode int, body []byte) error {
	var errResp signInErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return errors.Wrapf(service.ErrIdentityUnavailable, "identity toolkit returned status %d", statusCode)
	}

	// The message may carry a trailing reason, e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	message, _, _ := strings.Cut(errResp.Error.Message, " ")
	switch message {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return service.ErrInvalidCredentials
	default:
		s.logger.Warn("Unexpected identity toolkit error",
			slog.Int("status", statusCode),
			slog.String("message", errResp.Error.Message),
		)

		return errors.Wrap(service.ErrIdentityUnavailable, errResp.Error.Message)
	}
}

func principalFromRecord(record *fbauth.UserRecord) *entity.Principal {
	return &entity.Principal{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}
}
