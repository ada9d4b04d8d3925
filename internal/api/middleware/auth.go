package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/token"
)

type contextKey string

const (
	tokenInfoKey contextKey = "token_info"
	userKey      contextKey = "user"
)

// DefaultVerifyTTL is how long a token the backend accepted is trusted
// without asking again.
const DefaultVerifyTTL = 30 * time.Second

// maxVerified bounds the verified-token cache before expired entries are swept.
const maxVerified = 1024

// Verifier resolves the user a token belongs to. The token travels in the
// context, set with cdc.WithToken.
type Verifier interface {
	Me(ctx context.Context) (*model.User, error)
}

type verifiedToken struct {
	user  *model.User
	until time.Time
}

type tokenCache struct {
	mu      sync.Mutex
	entries map[string]verifiedToken
}

func (c *tokenCache) get(hash string, now time.Time) (*model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if !ok {
		return nil, false
	}
	if !now.Before(e.until) {
		delete(c.entries, hash)
		return nil, false
	}
	return e.user, true
}

func (c *tokenCache) put(hash string, user *model.User, until time.Time, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= maxVerified {
		for k, e := range c.entries {
			if !now.Before(e.until) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[hash] = verifiedToken{user: user, until: until}
}

// Auth returns middleware that requires a bearer token the CDC backend
// accepts, and forwards it with every call made for the request. Expired
// JWTs are rejected locally. Other tokens are checked against the backend's
// current-user endpoint; a successful check is cached by token hash for ttl.
func Auth(verifier Verifier, ttl time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultVerifyTTL
	}
	cache := &tokenCache{entries: make(map[string]verifiedToken)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			at := now()
			info, err := token.Check(raw, at)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := cdc.WithToken(r.Context(), raw)

			hash := sha256.Sum256([]byte(raw))
			key := hex.EncodeToString(hash[:])
			user, ok := cache.get(key, at)
			if !ok {
				user, err = verifier.Me(ctx)
				if err != nil {
					if apiErr, isAPI := cdc.AsAPIError(err); isAPI &&
						(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
						response.WriteError(w, http.StatusUnauthorized, "invalid token")
						return
					}
					response.WriteError(w, http.StatusBadGateway, "could not verify token")
					return
				}
				until := at.Add(ttl)
				if info.ExpiresAt != nil && info.ExpiresAt.Before(until) {
					until = *info.ExpiresAt
				}
				cache.put(key, user, until, at)
			}

			ctx = context.WithValue(ctx, tokenInfoKey, &info)
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token from the Authorization header, or from the
// token query parameter for websocket upgrades that cannot set headers.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(raw)
	}
	return r.URL.Query().Get("token")
}

// GetTokenInfo returns the claims of the request's token, if any.
func GetTokenInfo(ctx context.Context) *token.Info {
	info, _ := ctx.Value(tokenInfoKey).(*token.Info)
	return info
}

// GetUser returns the user the backend resolved for the request's token.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

// CallerKey identifies the operator behind a request: the backend user id
// when known, then the token subject, then a hash of the token itself.
func CallerKey(ctx context.Context) string {
	if u := GetUser(ctx); u != nil && u.ID != "" {
		return "user:" + u.ID.String()
	}
	if info := GetTokenInfo(ctx); info != nil && info.Subject != "" {
		return "sub:" + info.Subject
	}
	if raw := cdc.TokenFromContext(ctx); raw != "" {
		hash := sha256.Sum256([]byte(raw))
		return "tok:" + hex.EncodeToString(hash[:8])
	}
	return ""
}
