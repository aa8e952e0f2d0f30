package services

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type AuthEngine interface {
	SetApiKey(request *http.Request) error
}

type BearerAuth struct {
	apiKey string
}

func NewBearerAuth(apiKey string) *BearerAuth {
	if apiKey == "" {
		return nil
	}
	return &BearerAuth{apiKey: apiKey}
}

func (b *BearerAuth) SetApiKey(request *http.Request) error {
	request.Header.Set("Authorization", "Bearer "+b.apiKey)
	return nil
}

// Claims полезная нагрузка токена администратора каталога.
type Claims struct {
	SellerID string `json:"seller_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth подписывает короткоживущий HS256-токен и переиспользует его,
// пока до истечения остаётся больше минуты.
type JWTAuth struct {
	secret   []byte
	sellerID string
	role     string
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewJWTAuth(secret, sellerID, role string, ttl time.Duration) *JWTAuth {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTAuth{
		secret:   []byte(secret),
		sellerID: sellerID,
		role:     role,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (a *JWTAuth) SetApiKey(request *http.Request) error {
	token, err := a.Token()
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (a *JWTAuth) Token() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.token != "" && a.expires.Sub(now) > time.Minute {
		return a.token, nil
	}

	expires := now.Add(a.ttl)
	claims := &Claims{
		SellerID: a.sellerID,
		Role:     a.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.sellerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	a.token = signed
	a.expires = expires
	return signed, nil
}

// NewAuthEngine выбирает статический ключ, если он задан, иначе JWT.
func NewAuthEngine(apiKey, jwtSecret, sellerID, role string, ttl time.Duration) (AuthEngine, error) {
	if apiKey != "" {
		return NewBearerAuth(apiKey), nil
	}
	if jwtSecret != "" {
		return NewJWTAuth(jwtSecret, sellerID, role, ttl), nil
	}
	return nil, fmt.Errorf("no catalog credentials configured")
}
