package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schedit/schedit/backend-go/internal/typeid"
)

// DefaultTTL is how long an issued session token stays valid.
const DefaultTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidSlot  = errors.New("invalid slot name")
)

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidSlot reports whether name can be used as an autosave slot.
func ValidSlot(name string) bool {
	return slotPattern.MatchString(name)
}

// Service issues and validates HMAC-signed session tokens. A token binds
// its holder to one autosave slot.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Session is what a valid token grants.
type Session struct {
	ID        string    `json:"sessionId"`
	Slot      string    `json:"slot"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueResult is returned to the client that asked for a session.
type IssueResult struct {
	Token string `json:"token"`
	Session
}

// Issue signs a new session token for slot.
func (s *Service) Issue(slot string) (*IssueResult, error) {
	if !ValidSlot(slot) {
		return nil, ErrInvalidSlot
	}

	now := s.now()
	sess := Session{
		ID:        typeid.NewSessionID(),
		Slot:      slot,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}
	claims := jwt.MapClaims{
		"sub": slot,
		"sid": sess.ID,
		"iat": now.Unix(),
		"exp": sess.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssueResult{Token: signed, Session: sess}, nil
}

// Validate checks the token signature and expiry and returns its session.
func (s *Service) Validate(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	slot, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if !ValidSlot(slot) || typeid.Validate(sid, typeid.PrefixSession) != nil {
		return nil, fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: bad expiry", ErrInvalidToken)
	}
	return &Session{ID: sid, Slot: slot, ExpiresAt: exp.Time}, nil
}
