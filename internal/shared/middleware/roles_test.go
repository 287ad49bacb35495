package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoleGate(role string, mw gin.HandlerFunc) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(CtxRole, role)

	mw(c)
	return c, w
}

func TestStaffOnly_AllowsStaffAndAdmin(t *testing.T) {
	for _, role := range []string{"staff", "admin"} {
		c, _ := runRoleGate(role, StaffOnly())
		assert.False(t, c.IsAborted(), "role %q should pass", role)
	}
}

func TestStaffOnly_RejectsReader(t *testing.T) {
	c, w := runRoleGate("reader", StaffOnly())

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestAdminOnly_RejectsStaff(t *testing.T) {
	c, w := runRoleGate("staff", AdminOnly())

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReaderOnly_RejectsMissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ReaderOnly()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
