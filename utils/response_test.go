package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(send func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	send(c)
	return w
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		send    func(c *gin.Context)
		status  int
		message string
	}{
		{"unauthorized", func(c *gin.Context) { SendUnauthorized(c, "Authentication required") }, http.StatusUnauthorized, "Authentication required"},
		{"forbidden", func(c *gin.Context) { SendForbidden(c, "Your Post") }, http.StatusForbidden, "Your Post"},
		{"not found", func(c *gin.Context) { SendNotFound(c, "post not found") }, http.StatusNotFound, "post not found"},
		{"conflict", func(c *gin.Context) { SendConflict(c, "post was claimed by someone else") }, http.StatusConflict, "post was claimed by someone else"},
		{"internal", SendInternalError, http.StatusInternalServerError, internalErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := record(tt.send)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.status, body.Code)
			assert.Empty(t, body.Message)
		})
	}
}

func TestSendValidationError(t *testing.T) {
	w := record(func(c *gin.Context) { SendValidationError(c, "title is required") })

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, "title is required", body.Message)
}

func TestSendList(t *testing.T) {
	w := record(func(c *gin.Context) { SendList[string](c, "posts", nil) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts":[],"count":0}`, w.Body.String())

	w = record(func(c *gin.Context) { SendList(c, "pins", []int{4, 7}) })
	assert.JSONEq(t, `{"pins":[4,7],"count":2}`, w.Body.String())
}

func TestSendSuccessOmitsNilData(t *testing.T) {
	w := record(func(c *gin.Context) { SendSuccess(c, "Claim cancelled", nil) })
	assert.JSONEq(t, `{"message":"Claim cancelled"}`, w.Body.String())

	w = record(func(c *gin.Context) { SendCreated(c, "Post created successfully", map[string]string{"id": "p-1"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Post created successfully","data":{"id":"p-1"}}`, w.Body.String())

	w = record(func(c *gin.Context) { SendMessage(c, "Post deleted successfully") })
	assert.JSONEq(t, `{"message":"Post deleted successfully"}`, w.Body.String())
}
