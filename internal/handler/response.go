package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// payloadのない成功レスポンス { message: string }
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// middleware.SessionAuth が c.Set したセッションを取り出す
func sessionFromContext(c echo.Context) (*session.Session, bool) {
	return middleware.SessionFrom(c)
}

// 監査ログの actor。ログイン済みなら電話番号、未ログインの管理者はセッションIDで残す
func actorFromSession(s *session.Session) string {
	if p := s.Phone(); p != "" {
		return p
	}
	return "session:" + s.ID
}
