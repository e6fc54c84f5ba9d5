package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuth(pin string) (*AuthUsecase, *session.MemoryStore, *session.TokenIssuer) {
	store := session.NewMemoryStore(time.Hour, nil)
	tokens := session.NewTokenIssuer("test-secret", time.Hour)
	uc := NewAuthUsecase(store, tokens, AuthSettings{DevOTP: "1234", AdminPIN: pin}, zap.NewNop())
	return uc, store, tokens
}

func TestAuth_StartSession(t *testing.T) {
	uc, store, tokens := newAuth("")

	out, err := uc.StartSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, session.RoleUser, out.Role)
	assert.False(t, out.LoggedIn)

	claims, err := tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.SessionID, claims.SessionID)

	_, err = store.Get(out.SessionID)
	assert.NoError(t, err)
}

func TestAuth_OTPLogin(t *testing.T) {
	uc, store, tokens := newAuth("")
	ctx := context.Background()
	start, _ := uc.StartSession(ctx)
	sess, err := store.Get(start.SessionID)
	require.NoError(t, err)

	require.NoError(t, uc.SendOTP(ctx, sess, "98765-43210"))

	_, err = uc.VerifyOTP(ctx, sess, "0000")
	assertHTTPError(t, err, http.StatusUnauthorized, "invalid otp")
	assert.Equal(t, "", sess.Phone())

	out, err := uc.VerifyOTP(ctx, sess, " 1234 ")
	require.NoError(t, err)
	assert.True(t, out.LoggedIn)
	assert.Equal(t, "9876543210", out.Phone)
	assert.Equal(t, "9876543210", sess.Phone())

	claims, err := tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", claims.Phone)
}

func TestAuth_SendOTPRejectsBadPhone(t *testing.T) {
	uc, _, _ := newAuth("")
	sess := session.New("s", nil, time.Now())

	for _, p := range []string{"", "12345", "98765432101", "abcdefghij"} {
		err := uc.SendOTP(context.Background(), sess, p)
		assertHTTPError(t, err, http.StatusBadRequest, "invalid phone number")
	}
}

func TestAuth_VerifyWithoutSend(t *testing.T) {
	uc, _, _ := newAuth("")
	sess := session.New("s", nil, time.Now())

	_, err := uc.VerifyOTP(context.Background(), sess, "1234")
	assertHTTPError(t, err, http.StatusBadRequest, "otp not requested")

	_, err = uc.VerifyOTP(context.Background(), sess, "")
	assertHTTPError(t, err, http.StatusBadRequest, "otp required")
}

func TestAuth_Logout(t *testing.T) {
	uc, _, _ := newAuth("4321")
	ctx := context.Background()
	sess := session.New("s", nil, time.Now())
	require.NoError(t, uc.SendOTP(ctx, sess, "9876543210"))
	_, err := uc.VerifyOTP(ctx, sess, "1234")
	require.NoError(t, err)
	_, err = uc.AdminLogin(ctx, sess, "4321")
	require.NoError(t, err)

	out, err := uc.Logout(ctx, sess)
	require.NoError(t, err)
	assert.False(t, out.LoggedIn)
	assert.Equal(t, session.RoleUser, out.Role)
	assert.Equal(t, "", sess.Phone())
}

func TestAuth_AdminLogin(t *testing.T) {
	uc, _, _ := newAuth("4321")
	ctx := context.Background()
	sess := session.New("s", nil, time.Now())

	_, err := uc.AdminLogin(ctx, sess, "1111")
	assertHTTPError(t, err, http.StatusUnauthorized, "invalid pin")
	assert.Equal(t, session.RoleUser, sess.Role())

	out, err := uc.AdminLogin(ctx, sess, "4321")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, out.Role)
	assert.Equal(t, session.RoleAdmin, sess.Role())
}

func TestAuth_AdminLoginDisabledWithoutPIN(t *testing.T) {
	uc, _, _ := newAuth("")
	_, err := uc.AdminLogin(context.Background(), session.New("s", nil, time.Now()), "")
	assertHTTPError(t, err, http.StatusForbidden, "admin login disabled")
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9876543210", normalizePhone("98765 43210"))
	assert.Equal(t, "9876543210", normalizePhone("(987) 654-3210"))
	assert.Equal(t, "", normalizePhone("abc"))
	assert.Equal(t, "******3210", maskPhone("9876543210"))
}
