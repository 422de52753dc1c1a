package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h, func(c *gin.Context) { Success(c, http.StatusOK, "reached") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestAbortStopsChain(t *testing.T) {
	w := perform(func(c *gin.Context) { Abort(c, http.StatusForbidden, "FORBIDDEN", "no") })

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body struct {
		Success bool      `json:"success"`
		Error   ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.NotContains(t, w.Body.String(), "reached")
	assert.NotContains(t, w.Body.String(), "details")
}

func TestErrorWithDetails(t *testing.T) {
	w := perform(func(c *gin.Context) {
		ErrorWithDetails(c, http.StatusConflict, "SCHEDULE_CONFLICT", "busy", []string{"room 3"})
		c.Abort()
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"code":"SCHEDULE_CONFLICT","message":"busy","details":["room 3"]}}`,
		w.Body.String())
}

func TestBadRequest(t *testing.T) {
	w := perform(func(c *gin.Context) {
		BadRequest(c, errors.New("date is required"))
		c.Abort()
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
