// File: /middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"foodshare-api/models"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

var errMissingToken = errors.New("missing bearer token")

// Claims are the access token claims issued by the identity provider
type Claims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

type UserMetadata struct {
	FullName string `json:"full_name"`
}

// TokenValidator verifies HS256 access tokens
type TokenValidator struct {
	secret []byte
}

func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

func (v *TokenValidator) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token subject is required")
	}
	return claims, nil
}

// Sign issues a token for the user. Used by tests and local tooling.
func (v *TokenValidator) Sign(user models.User, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = user.ID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: claims,
		Email:            user.Email,
		UserMetadata:     UserMetadata{FullName: user.FullName},
	})
	return token.SignedString(v.secret)
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}

func (v *TokenValidator) authenticate(c *gin.Context) error {
	tokenStr, err := bearerToken(c)
	if err != nil {
		return err
	}
	claims, err := v.Validate(tokenStr)
	if err != nil {
		return err
	}

	user := models.User{ID: claims.Subject, Email: claims.Email, FullName: claims.UserMetadata.FullName}
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUser, user)
	return nil
}

// AuthMiddleware rejects requests without a valid access token
func AuthMiddleware(v *TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := v.authenticate(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent, so public pages
// can be tailored. A token that is present but invalid is still rejected.
func OptionalAuth(v *TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := v.authenticate(c); err != nil && !errors.Is(err, errMissingToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or the zero User for
// anonymous requests
func CurrentUser(c *gin.Context) models.User {
	if v, ok := c.Get(ContextUser); ok {
		if user, ok := v.(models.User); ok {
			return user
		}
	}
	return models.User{}
}
