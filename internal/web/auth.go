package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("web: missing or invalid author token")

type authorClaims struct {
	Exp int64  `json:"exp"`
	Sub string `json:"sub"` // author name
	N   string `json:"n,omitempty"`
}

// LoadOrInitSecret reads the signing key at path, creating a random one
// (mode 0600) when the file is missing or empty.
func LoadOrInitSecret(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("web: missing secret file path")
	}
	if b, err := os.ReadFile(path); err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(enc+"\n"), 0o600); err != nil {
		return nil, err
	}
	return []byte(enc), nil
}

// NewAuthorToken mints a token that lets its bearer post messages as author.
func NewAuthorToken(secret []byte, author string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("web: missing secret")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		return "", errors.New("missing author")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	n := make([]byte, 16)
	if _, err := rand.Read(n); err != nil {
		return "", err
	}
	return signToken(secret, authorClaims{
		Sub: author,
		N:   base64.RawURLEncoding.EncodeToString(n),
		Exp: time.Now().Add(ttl).Unix(),
	})
}

func signToken(secret []byte, claims authorClaims) (string, error) {
	b, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return p + "." + sig, nil
}

func verifyToken(secret []byte, token string, now time.Time) (authorClaims, error) {
	token = strings.TrimSpace(token)
	p, sig, ok := strings.Cut(token, ".")
	if !ok || strings.Contains(sig, ".") {
		return authorClaims{}, errors.New("invalid token format")
	}

	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(mac.Sum(nil), got) {
		return authorClaims{}, errors.New("invalid token signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return authorClaims{}, errors.New("invalid token payload")
	}
	var c authorClaims
	if err := json.Unmarshal(raw, &c); err != nil {
		return authorClaims{}, errors.New("invalid token payload")
	}
	if c.Exp == 0 {
		return authorClaims{}, errors.New("token missing exp")
	}
	if now.Unix() > c.Exp {
		return authorClaims{}, errors.New("token expired")
	}
	if strings.TrimSpace(c.Sub) == "" {
		return authorClaims{}, errors.New("token missing sub")
	}
	return c, nil
}

// requestToken returns the bearer token, falling back to the token query
// parameter for WebSocket clients that cannot set headers.
func requestToken(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// postingAuthor decides who a request may post as. Without a secret anyone
// may post under any name; with one the token's author wins.
func (s *Server) postingAuthor(r *http.Request, claimed string) (string, error) {
	if len(s.cfg.Secret) == 0 {
		return claimed, nil
	}
	c, err := verifyToken(s.cfg.Secret, requestToken(r), time.Now())
	if err != nil {
		s.log.Debug("rejected token", zap.Error(err))
		return "", ErrUnauthorized
	}
	return c.Sub, nil
}
