package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// セッション開始とモックログイン（OTP / 管理者PIN）
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// /auth/otp/send のリクエストボディ。
type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// /auth/otp/verify のリクエストボディ。
type verifyOTPRequest struct {
	OTP string `json:"otp"`
}

// /auth/admin のリクエストボディ。
type adminLoginRequest struct {
	PIN string `json:"pin"`
}

// POST /session だけトークンなしで呼べる
func (h *AuthHandler) RegisterRoutes(public *echo.Group, sess *echo.Group) {
	public.POST("/session", h.start)

	auth := sess.Group("/auth")
	auth.POST("/otp/send", h.sendOTP)
	auth.POST("/otp/verify", h.verifyOTP)
	auth.POST("/logout", h.logout)
	auth.POST("/admin", h.adminLogin)
}

func (h *AuthHandler) start(c echo.Context) error {
	out, err := h.uc.StartSession(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) sendOTP(c echo.Context) error {
	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req sendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SendOTP(c.Request().Context(), s, req.Phone); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "otp sent"})
}

// 成功したら電話番号入りのトークンを再発行する
func (h *AuthHandler) verifyOTP(c echo.Context) error {
	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.VerifyOTP(c.Request().Context(), s, req.OTP)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Logout(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) adminLogin(c echo.Context) error {
	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminLogin(c.Request().Context(), s, req.PIN)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
