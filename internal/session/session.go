// Package session issues and verifies locally signed sign-in tokens.
package session

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	lilterrors "github.com/tessro/lilt/internal/errors"
)

// Claim names carried in the token.
const (
	ClaimUserID = "user_id"
	ClaimEmail  = "email"
)

// Session is a signed-in user.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session is past its expiry.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// UserID derives a stable user id from an email address.
func UserID(email string) string {
	normalized := "mailto:" + strings.ToLower(strings.TrimSpace(email))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(normalized)).String()
}

// NewSecret returns a random signing secret.
func NewSecret() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// Issue signs a new session for email.
func Issue(secret []byte, email string, ttl time.Duration) (*Session, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("no signing secret configured")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", email, err)
	}

	now := time.Now().Truncate(time.Second)
	s := &Session{
		UserID:    UserID(addr.Address),
		Email:     addr.Address,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims[ClaimUserID] = s.UserID
	claims[ClaimEmail] = s.Email
	claims["iat"] = now.Unix()
	claims["exp"] = s.ExpiresAt.Unix()

	s.Token, err = token.SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

// Verify checks the token signature and expiry and returns its session.
func Verify(secret []byte, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lilterrors.ErrNotSignedIn, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, lilterrors.ErrNotSignedIn
	}
	return FromClaims(claims, tokenString)
}

// FromClaims builds a session from verified token claims.
func FromClaims(claims jwt.MapClaims, tokenString string) (*Session, error) {
	userID, _ := claims[ClaimUserID].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: token has no user id", lilterrors.ErrNotSignedIn)
	}
	email, _ := claims[ClaimEmail].(string)

	s := &Session{UserID: userID, Email: email, Token: tokenString}
	if iat, ok := claims["iat"].(float64); ok {
		s.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return s, nil
}
