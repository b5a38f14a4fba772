package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/clinic-app/models"
)

// Tokens issues and reads the HS256 tokens every role logs in with.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Secret is shared with the fiber JWT middleware.
func (t *Tokens) Secret() []byte {
	return t.secret
}

// Issue signs a token for the caller.
func (t *Tokens) Issue(caller models.Caller) (string, error) {
	claims := jwt.MapClaims{
		"id":   caller.ID,
		"role": string(caller.Role),
		"iat":  t.now().Unix(),
		"exp":  t.now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a signed token and returns its caller.
func (t *Tokens) Parse(raw string) (models.Caller, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return models.Caller{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Caller{}, errors.New("invalid token claims")
	}
	return CallerFromClaims(claims)
}

// CallerFromClaims handles the id formats a token may carry.
func CallerFromClaims(claims jwt.MapClaims) (models.Caller, error) {
	role, ok := claims["role"].(string)
	if !ok || !models.Role(role).Valid() {
		return models.Caller{}, errors.New("invalid role in token")
	}

	var id uint
	switch v := claims["id"].(type) {
	case float64:
		id = uint(v)
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return models.Caller{}, fmt.Errorf("could not parse ID string: %v", err)
		}
		id = uint(parsed)
	case nil:
		return models.Caller{}, errors.New("no ID found in claims")
	default:
		return models.Caller{}, fmt.Errorf("unsupported ID type: %T", v)
	}

	return models.Caller{ID: id, Role: models.Role(role)}, nil
}
