package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	SessionID string
	Role      Role
	Phone     string
	ExpiresAt time.Time
}

// TokenIssuer signs HS256 session tokens. The token only names the session;
// cart and login state stay on the server.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// jwt発行
func (i *TokenIssuer) Issue(s *Session) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sid":  s.ID,
		"role": string(s.Role()),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	if phone := s.Phone(); phone != "" {
		claims["phone"] = phone
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// 残り期限がttlの半分を切ったら再発行する（操作中のユーザーを期限で落とさない）
func (i *TokenIssuer) NeedsRefresh(c *Claims) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.Sub(i.now()) < i.ttl/2
}

func (i *TokenIssuer) Parse(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sid, _ := mc["sid"].(string)
	if sid == "" {
		return nil, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	phone, _ := mc["phone"].(string)

	out := &Claims{SessionID: sid, Role: Role(role), Phone: phone}
	if exp, ok := mc["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
