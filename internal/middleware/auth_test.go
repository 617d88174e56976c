package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	})
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuthAcceptsValidToken(t *testing.T) {
	r := newProtectedRouter()
	token := signToken(t, jwt.MapClaims{
		"sub": "ada",
		"exp": time.Now().Add(time.Minute).Unix(),
	}, testSecret)

	w := doGet(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"ada"`)
}

func TestUserAuthRejectsBadTokens(t *testing.T) {
	r := newProtectedRouter()

	expired := signToken(t, jwt.MapClaims{
		"sub": "ada",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, testSecret)
	wrongSecret := signToken(t, jwt.MapClaims{
		"sub": "ada",
		"exp": time.Now().Add(time.Minute).Unix(),
	}, "other-secret")
	missingSub := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}, testSecret)

	cases := map[string]string{
		"missing header":  "",
		"not bearer":      "Basic abc",
		"malformed token": "Bearer not.a.token",
		"expired":         "Bearer " + expired,
		"wrong secret":    "Bearer " + wrongSecret,
		"missing sub":     "Bearer " + missingSub,
	}

	for name, header := range cases {
		w := doGet(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}
