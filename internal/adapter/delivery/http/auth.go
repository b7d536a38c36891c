package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

type ctxKey int

const ownerIDKey ctxKey = iota

// accessTokenParam carries the token of a websocket handshake, which browsers
// cannot send with an Authorization header.
const accessTokenParam = "access_token"

var (
	errMissingToken   = errors.New("missing bearer token")
	errMissingSubject = errors.New("token has no subject")
)

// Authenticator verifies HS256 bearer tokens. The token subject is the owner id.
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Middleware rejects requests without a valid token and stores the owner id in
// the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := a.authenticate(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="links"`)
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, unauthenticatedResponse)
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", errMissingToken
	}

	return a.Verify(token)
}

// Verify checks the token signature and registered claims and returns its subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	const op = "adapter.delivery.http.Authenticator.Verify"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%s: %w", op, errMissingSubject)
	}

	return claims.Subject, nil
}

// Issue signs a token for ownerID that expires after ttl.
func (a *Authenticator) Issue(ownerID string, ttl time.Duration) (string, error) {
	const op = "adapter.delivery.http.Authenticator.Issue"

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get(accessTokenParam)
	}

	return ""
}

func ownerIDFromContext(ctx context.Context) string {
	ownerID, _ := ctx.Value(ownerIDKey).(string)
	return ownerID
}
