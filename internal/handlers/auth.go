package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/apperr"
	"backoffice/internal/models"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// normalizeUsername makes usernames case-insensitive: "Ada" and "ada"
// are the same identity, stored trimmed and lowercased.
func normalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Signup stores a new credential. Uniqueness is enforced by the unique
// index on auth.username; a duplicate insert surfaces as a storage
// error and is mapped here, so concurrent signups cannot both win.
func Signup(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/signup"

		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		username := normalizeUsername(req.Username)
		if username == "" || strings.TrimSpace(req.Password) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		credential := models.Credential{
			Username:     username,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}

		if _, err := db.Collection(authCollection).InsertOne(ctx, credential); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.ErrUsernameTaken)
				return
			}
			respondInternal(c, route, err)
			return
		}

		log.Ctx(c.Request.Context()).Info().Str("username", username).Msg("credential created")
		c.JSON(http.StatusCreated, gin.H{"message": "user created"})
	}
}

// Login verifies a credential. An unknown username and a wrong
// password produce the identical response so the two cases cannot be
// told apart from the outside.
func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		username := normalizeUsername(req.Username)

		ctx, cancel := requestContext(c)
		defer cancel()

		var credential models.Credential
		err := db.Collection(authCollection).FindOne(ctx, bson.M{"username": username}).Decode(&credential)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.ErrInvalidCredentials)
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, route, apperr.ErrInvalidCredentials)
			return
		}

		accessToken, err := issueAccessToken(username, jwtSecret, accessTTL)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		log.Ctx(c.Request.Context()).Info().Str("username", username).Msg("login succeeded")
		c.JSON(http.StatusOK, gin.H{
			"message":     "login successful",
			"accessToken": accessToken,
			"expiresIn":   int64(accessTTL.Seconds()),
		})
	}
}

// Me echoes the identity carried by the bearer token.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	}
}

func issueAccessToken(username, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
