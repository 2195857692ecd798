// Package webapi exposes the transform engine over HTTP.
// This file contains the APIKeyAuth middleware molecule.
package webapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyHeader is the request header carrying the client's API key.
const APIKeyHeader = "X-API-Key"

// ErrEmptyAPIKey is returned when constructing auth with an empty key.
var ErrEmptyAPIKey = errors.New("webapi: api key cannot be empty")

// APIKeyAuth is a middleware molecule that rejects requests whose
// X-API-Key header does not match the configured key.
//
// The configured key may be supplied either as plaintext or as a bcrypt
// hash (the operator pre-hashes it so the plaintext never appears in the
// environment). Either way the per-request comparison goes through
// bcrypt.CompareHashAndPassword, which is constant-time.
type APIKeyAuth struct {
	keyHash []byte
	logger  *zap.Logger
}

// NewAPIKeyAuth creates the middleware from the configured key.
//
// A key that already parses as a bcrypt hash is used as-is. A plaintext
// key is hashed once at startup with bcrypt.MinCost: the hash never leaves
// memory, so the cost factor only needs to buy constant-time comparison,
// not brute-force resistance for stored credentials.
func NewAPIKeyAuth(key string, logger *zap.Logger) (*APIKeyAuth, error) {
	if key == "" {
		return nil, ErrEmptyAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hash := []byte(key)
	if !isBcryptHash(key) {
		generated, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		hash = generated
	}

	return &APIKeyAuth{keyHash: hash, logger: logger}, nil
}

// isBcryptHash reports whether s is a well-formed bcrypt hash.
func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// Middleware wraps next with API-key verification. Requests without the
// header or with a non-matching key receive 401 with the standard error
// body.
func (a *APIKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing "+APIKeyHeader+" header")
			return
		}

		if err := bcrypt.CompareHashAndPassword(a.keyHash, []byte(key)); err != nil {
			a.logger.Warn("rejected request with invalid api key",
				zap.String("path", r.URL.Path),
				zap.String("remote", clientIP(r)),
			)
			writeJSONError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
