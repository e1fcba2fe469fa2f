package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// セッションID（ゲストも持つ）
	SessionCookieName = "sf_session"
	CtxSessionIDKey   = "session_id" // string
)

// Session はセッションCookieを保証するミドルウェア。
// 無ければuuidを発行してSet-Cookieする。ログイン有無に関係なく付く。
func Session(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string

			if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
				// 壊れた値は振り直す
				if _, err := uuid.Parse(ck.Value); err == nil {
					sid = ck.Value
				}
			}

			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    sid,
					Path:     "/",
					Expires:  time.Now().Add(30 * 24 * time.Hour),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionIDFromContext はSessionミドルウェアが入れたIDを返す。
func SessionIDFromContext(c echo.Context) (string, bool) {
	sid, ok := c.Get(CtxSessionIDKey).(string)
	return sid, ok && sid != ""
}
