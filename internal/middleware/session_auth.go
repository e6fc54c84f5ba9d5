package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/session"

	"github.com/labstack/echo/v4"
)

const (
	CtxSessionKey = "session" // *session.Session

	// 期限が近いトークンを差し替えるときのレスポンスヘッダ
	HeaderSessionToken = "X-Session-Token"
)

// bearerのセッショントークンを検証して、サーバー側のセッションをcontextに入れる。
// role/phoneはトークンではなくセッションの値を正とする。
func SessionAuth(tokens *session.TokenIssuer, store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する
			claims, err := tokens.Parse(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//期限切れ・再起動で消えたセッションは401
			sess, err := store.Get(claims.SessionID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("session expired"))
			}

			//使い続けているセッションは期限前にトークンを出し直す
			if tokens.NeedsRefresh(claims) {
				if fresh, _, err := tokens.Issue(sess); err == nil {
					c.Response().Header().Set(HeaderSessionToken, fresh)
				}
			}

			c.Set(CtxSessionKey, sess)
			return next(c)
		}
	}
}

// handlerからセッションを取り出す
func SessionFrom(c echo.Context) (*session.Session, bool) {
	s, ok := c.Get(CtxSessionKey).(*session.Session)
	return s, ok && s != nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
