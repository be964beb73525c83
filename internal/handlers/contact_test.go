package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/contact", ContactForm)
	return r
}

func postContact(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactFormDevModeLogsAndSucceeds(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_USERNAME", "")

	w := postContact(t, contactRouter(), map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"phone":   "+2348012345678",
		"comment": "Où trouver le beurre de karité ?",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestContactFormRejectsMissingFields(t *testing.T) {
	r := contactRouter()

	// Pas de commentaire
	w := postContact(t, r, map[string]string{"name": "Ada", "email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Pas de nom
	w = postContact(t, r, map[string]string{"email": "ada@example.com", "comment": "bonjour"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactFormRejectsMalformedEmail(t *testing.T) {
	w := postContact(t, contactRouter(), map[string]string{
		"name":    "Ada",
		"email":   "pas-un-email",
		"comment": "bonjour",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
}
