package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-rental-management/internal/model"
)

func TestDefaultRoleMapping(t *testing.T) {
	m := DefaultRoleMapping()
	assert.Equal(t, model.RoleCustomer, m["subject1"])
	assert.Equal(t, model.RoleEmployee, m["subject2"])
	assert.Equal(t, model.RoleAdmin, m["subject3"])
	assert.Len(t, m, 3)

	_, ok := m["subject4"]
	assert.False(t, ok)
}

func postJSON(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h := &AuthHandler{Roles: DefaultRoleMapping()}
	c, rec := postJSON(t, `{"username":"alice","password":"secret"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestRegisterRejectsUnknownSubject(t *testing.T) {
	h := &AuthHandler{Roles: DefaultRoleMapping()}
	c, rec := postJSON(t, `{
		"username":"alice","password":"secret","full_name":"Alice Smith",
		"email":"alice@example.com","phone":"555-0100","address":"1 Main St",
		"date_of_birth":"1990-03-15","subject":"subject9"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "subject")
}

func TestRegisterRejectsBadDate(t *testing.T) {
	h := &AuthHandler{Roles: DefaultRoleMapping()}
	c, rec := postJSON(t, `{
		"username":"alice","password":"secret","full_name":"Alice Smith",
		"email":"alice@example.com","phone":"555-0100","address":"1 Main St",
		"date_of_birth":"15/03/1990","subject":"subject1"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "date_of_birth")
}

func TestGetUserIDHandlesClaimTypes(t *testing.T) {
	e := echo.New()
	for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set("user_id", v)
		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got)
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user_id", "not-a-number")
	_, err := getUserID(c)
	assert.Error(t, err)
}
