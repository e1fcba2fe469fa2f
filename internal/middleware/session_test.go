package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSessionMW(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sid string
	h := Session(false)(func(c echo.Context) error {
		sid, _ = SessionIDFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	return rec, sid
}

// Test: Cookieが無ければセッションIDを発行してSet-Cookieする
func TestSessionIssuesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec, sid := runSessionMW(t, req)

	require.NotEmpty(t, sid)
	_, err := uuid.Parse(sid)
	assert.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

// Test: 既存の正しいCookieはそのまま使う
func TestSessionReusesCookie(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing})

	rec, sid := runSessionMW(t, req)

	assert.Equal(t, existing, sid)
	assert.Empty(t, rec.Result().Cookies())
}

// Test: 壊れたCookie値は振り直す
func TestSessionReplacesBrokenCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})

	rec, sid := runSessionMW(t, req)

	assert.NotEqual(t, "not-a-uuid", sid)
	_, err := uuid.Parse(sid)
	assert.NoError(t, err)
	require.Len(t, rec.Result().Cookies(), 1)
}
