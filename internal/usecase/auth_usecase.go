package usecase

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
	"unicode"

	"storefront/internal/session"

	"go.uber.org/zap"
)

// 電話番号は数字だけで10桁
const phoneDigits = 10

type AuthSettings struct {
	DevOTP   string
	AdminPIN string
}

// AuthUsecase はモックOTPログインと管理者PINだけを扱う（本物の認証ではない）。
type AuthUsecase struct {
	sessions session.Store
	tokens   *session.TokenIssuer
	cfg      AuthSettings
	logger   *zap.Logger
}

func NewAuthUsecase(sessions session.Store, tokens *session.TokenIssuer, cfg AuthSettings, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
	}
}

type SessionOutput struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	SessionID string       `json:"session_id"`
	Role      session.Role `json:"role"`
	Phone     string       `json:"phone,omitempty"`
	LoggedIn  bool         `json:"logged_in"`
}

func (u *AuthUsecase) StartSession(ctx context.Context) (SessionOutput, error) {
	s := u.sessions.Create()
	return u.issue(s)
}

// SendOTP は送信した体で番号を覚えておく。
func (u *AuthUsecase) SendOTP(ctx context.Context, sess *session.Session, phone string) error {
	digits := normalizePhone(phone)
	if len(digits) != phoneDigits {
		return NewHTTPError(http.StatusBadRequest, "invalid phone number")
	}
	sess.RequestOTP(digits)
	u.logger.Info("otp requested", zap.String("session_id", sess.ID), zap.String("phone", maskPhone(digits)))
	return nil
}

func (u *AuthUsecase) VerifyOTP(ctx context.Context, sess *session.Session, otp string) (SessionOutput, error) {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return SessionOutput{}, NewHTTPError(http.StatusBadRequest, "otp required")
	}
	if !constantTimeEqual(otp, u.cfg.DevOTP) {
		return SessionOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid otp")
	}
	if _, ok := sess.ConfirmOTP(); !ok {
		return SessionOutput{}, NewHTTPError(http.StatusBadRequest, "otp not requested")
	}
	return u.issue(sess)
}

func (u *AuthUsecase) Logout(ctx context.Context, sess *session.Session) (SessionOutput, error) {
	sess.Logout()
	return u.issue(sess)
}

// AdminLogin はPINが一致したセッションをADMINに昇格する。
func (u *AuthUsecase) AdminLogin(ctx context.Context, sess *session.Session, pin string) (SessionOutput, error) {
	if u.cfg.AdminPIN == "" {
		return SessionOutput{}, NewHTTPError(http.StatusForbidden, "admin login disabled")
	}
	if !constantTimeEqual(strings.TrimSpace(pin), u.cfg.AdminPIN) {
		u.logger.Warn("admin login rejected", zap.String("session_id", sess.ID))
		return SessionOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid pin")
	}
	sess.Promote()
	u.logger.Info("admin login", zap.String("session_id", sess.ID))
	return u.issue(sess)
}

func (u *AuthUsecase) issue(s *session.Session) (SessionOutput, error) {
	token, exp, err := u.tokens.Issue(s)
	if err != nil {
		return SessionOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}
	phone := s.Phone()
	return SessionOutput{
		Token:     token,
		ExpiresAt: exp,
		SessionID: s.ID,
		Role:      s.Role(),
		Phone:     phone,
		LoggedIn:  phone != "",
	}, nil
}

// 数字以外を取り除く
func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func maskPhone(p string) string {
	if len(p) <= 4 {
		return p
	}
	return strings.Repeat("*", len(p)-4) + p[len(p)-4:]
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
