package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	firebase "github.com/isqad/firebase-auth-service/pkg/service"
	"google.golang.org/grpc"
)

var (
	// ErrEmptyToken is returned when the handshake carries no credential
	ErrEmptyToken = errors.New("empty auth token")
)

// TokenVerifier resolves a bearer credential to a user id. Verification
// runs exactly once per connection, before any socket handler is wired.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// FirebaseVerifier verifies tokens against the auth service over gRPC.
type FirebaseVerifier struct {
	Addr    string
	Timeout time.Duration
}

func NewFirebaseVerifier(addr string, timeout time.Duration) *FirebaseVerifier {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &FirebaseVerifier{
		Addr:    addr,
		Timeout: timeout,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}

	conn, err := grpc.Dial(v.Addr, []grpc.DialOption{
		grpc.WithInsecure(),
		grpc.WithBlock(),
	}...)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	authClient := firebase.NewAuthClient(conn)
	ctx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	t, err := authClient.Verify(ctx, &firebase.Token{Token: token})
	if err != nil {
		return "", err
	}

	return t.GetUserId(), nil
}

// VerifierFunc adapts a function to the TokenVerifier interface, used
// for stubbing the auth service in tests.
type VerifierFunc func(ctx context.Context, token string) (string, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// TokenFromRequest extracts the bearer credential from the handshake:
// the auth_token query parameter or the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("auth_token"); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}
