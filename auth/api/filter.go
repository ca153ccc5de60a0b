package api

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/internal/logutil"
)

type (
	// SecurityRealm guards sensitive handlers behind bearer-token
	// authentication. Recently verified tokens are kept in a short-lived
	// cache so the signature check does not run on every request, a
	// cache hit is still discarded once the token expiry passes.
	SecurityRealm struct {
		tokens   *auth.Tokens
		verified *bigcache.BigCache
	}
)

var (
	bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)
)

func NewRealm(tokens *auth.Tokens) *SecurityRealm {
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(10 * time.Minute))
	return &SecurityRealm{
		tokens:   tokens,
		verified: cache,
	}
}

// Protect wraps sensitive so that it only runs for requests carrying a
// valid bearer token, with the resolved user id attached to the request
// context. Requests without a token are rejected before verification is
// even attempted.
func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization"))
		if len(groups) == 0 {
			unauthorized(w, "No token provided")
			return
		}
		userID, ok := s.checkToken(r, groups[1])
		if !ok {
			unauthorized(w, "Invalid token")
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func (s *SecurityRealm) checkToken(r *http.Request, token string) (int64, bool) {
	if userID, ok := s.cachedToken(token); ok {
		return userID, true
	}
	userID, expiry, err := s.tokens.Verify(token)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Debug().Err(err).Msg("Rejecting bearer token")
		return 0, false
	}
	s.cacheToken(token, userID, expiry)
	return userID, true
}

func (s *SecurityRealm) cachedToken(token string) (int64, bool) {
	buf, err := s.verified.Get(token)
	if err != nil || len(buf) != 16 {
		return 0, false
	}
	userID := int64(binary.BigEndian.Uint64(buf))
	expiry := time.Unix(int64(binary.BigEndian.Uint64(buf[8:])), 0)
	if !time.Now().Before(expiry) {
		return 0, false
	}
	return userID, true
}

func (s *SecurityRealm) cacheToken(token string, userID int64, expiry time.Time) {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	binary.BigEndian.PutUint64(buf[8:], uint64(expiry.Unix()))
	s.verified.Set(token, buf[:])
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
