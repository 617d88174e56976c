package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"
)

func postJSON(r *gin.Engine, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestNormalizeUsername(t *testing.T) {
	// Usernames are case-insensitive identities: "Ada" and "ada" must
	// land on the same unique-index key.
	assert.Equal(t, "ada", normalizeUsername("Ada"))
	assert.Equal(t, "ada", normalizeUsername("  ADA  "))
	assert.Equal(t, normalizeUsername("Ada"), normalizeUsername("ada"))
	assert.Equal(t, "", normalizeUsername("   "))
}

// The unknown-username and wrong-password failures must be
// indistinguishable from the outside: same status, byte-identical
// body.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown username vs wrong password", func(mt *mtest.T) {
		r := gin.New()
		r.POST("/auth/login", Login(mt.DB, "test-secret", time.Minute))

		// Unknown username: the find comes back empty.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "backoffice.auth", mtest.FirstBatch))
		unknownUser := postJSON(r, "/auth/login", `{"username":"ghost","password":"whatever"}`)

		// Known username, wrong password.
		hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
		require.NoError(mt, err)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "backoffice.auth", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "ada"},
			{Key: "passwordHash", Value: string(hash)},
			{Key: "createdAt", Value: time.Now()},
		}))
		wrongPassword := postJSON(r, "/auth/login", `{"username":"ada","password":"wrong"}`)

		require.Equal(mt, http.StatusBadRequest, unknownUser.Code)
		assert.Equal(mt, unknownUser.Code, wrongPassword.Code)
		assert.Equal(mt, unknownUser.Body.String(), wrongPassword.Body.String())
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword(hash, []byte("wrong")))
}

func TestIssueAccessToken(t *testing.T) {
	tokenString, err := issueAccessToken("ada", "test-secret", 20*time.Minute)
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ada", claims["sub"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(20*time.Minute), exp.Time, time.Minute)
}

func TestIssueAccessTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := issueAccessToken("ada", "test-secret", time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

// Binding failures are rejected before the store is touched, so a nil
// database handle is safe here.
func TestSignupRejectsMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signup", Signup(nil))

	bodies := []string{
		``,
		`{}`,
		`{"username":"ada"}`,
		`{"password":"s3cret"}`,
	}
	for _, body := range bodies {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body=%q", body)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", Login(nil, "test-secret", time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"ada"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
