package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func queryContext(rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c, w
}

func TestQueryTime(t *testing.T) {
	c, _ := queryContext("from=2026-03-01&to=2026-03-31")

	from, ok := queryTime(c, "from")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, ok := queryRangeEnd(c, "to")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 999999999, time.UTC), *to)

	missing, ok := queryTime(c, "until")
	assert.True(t, ok)
	assert.Nil(t, missing)
}

func TestQueryTimeRFC3339(t *testing.T) {
	c, _ := queryContext("to=2026-03-31T10:00:00Z")

	to, ok := queryRangeEnd(c, "to")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC), *to)
}

func TestQueryTimeRejectsGarbage(t *testing.T) {
	c, w := queryContext("from=last-week")

	_, ok := queryTime(c, "from")
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"from"`)
}

func TestParamUUID(t *testing.T) {
	c, w := queryContext("")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := paramUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, _ = queryContext("client_id=6f1c2f5e-7c1a-4a57-9a57-2d4b1c1f0e11")
	id, ok := queryUUID(c, "client_id")
	require.True(t, ok)
	assert.Equal(t, "6f1c2f5e-7c1a-4a57-9a57-2d4b1c1f0e11", id.String())
}
