package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, role interface{}, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	staffOnly := RequireRole("employee", "admin")

	assert.Equal(t, http.StatusOK, runWithRole(t, "employee", staffOnly).Code)
	assert.Equal(t, http.StatusOK, runWithRole(t, "admin", staffOnly).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, "customer", staffOnly).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, nil, staffOnly).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, 42, staffOnly).Code)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := JWTAuth("secret")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	c := e.NewContext(req, rec)

	h := JWTAuth("secret")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
