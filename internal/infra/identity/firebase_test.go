package identity

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atlas/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIdentity(serverURL string) *firebaseIdentity {
	return &firebaseIdentity{
		apiKey:     "test-key",
		endpoint:   serverURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
	}
}

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"localId":"uid-42","email":"a@b.co","displayName":"Ada"}`))
	}))
	defer server.Close()

	svc := newTestIdentity(server.URL)

	principal, err := svc.SignIn(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-42", principal.UID)
	assert.Equal(t, "a@b.co", principal.Email)
	assert.Equal(t, "Ada", principal.DisplayName)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	for _, code := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED"} {
		t.Run(code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"` + code + `"}}`))
			}))
			defer server.Close()

			svc := newTestIdentity(server.URL)

			_, err := svc.SignIn(context.Background(), "a@b.co", "wrong")
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}
}

func TestSignIn_ErrorMessageWithSuffix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"USER_DISABLED : The user account has been disabled."}}`))
	}))
	defer server.Close()

	svc := newTestIdentity(server.URL)

	_, err := svc.SignIn(context.Background(), "a@b.co", "pw")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSignIn_UnexpectedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"TOO_MANY_ATTEMPTS_TRY_LATER"}}`))
	}))
	defer server.Close()

	svc := newTestIdentity(server.URL)

	_, err := svc.SignIn(context.Background(), "a@b.co", "pw")
	assert.ErrorIs(t, err, service.ErrIdentityUnavailable)
}

func TestSignIn_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	svc := newTestIdentity(server.URL)

	_, err := svc.SignIn(context.Background(), "a@b.co", "pw")
	assert.ErrorIs(t, err, service.ErrIdentityUnavailable)
}
