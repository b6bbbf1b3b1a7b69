package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireAuth.
const (
	EditorIDKey = "editor_id"
	RoleKey     = "role"
)

const tokenTTL = 72 * time.Hour

// Auth issues and checks editor tokens.
type Auth struct {
	secret  []byte
	enabled bool
}

func NewAuth(secret string, enabled bool) *Auth {
	return &Auth{secret: []byte(secret), enabled: enabled}
}

// GenerateToken signs a token for an editor.
func (a *Auth) GenerateToken(editorID, role string) (string, error) {
	claims := jwt.MapClaims{
		EditorIDKey: editorID,
		RoleKey:     role,
		"exp":       time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses a token signed with HS256 by this service.
func (a *Auth) ValidateToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RequireAuth ensures a valid JWT is present. It lets every request through
// when auth is disabled.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := a.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Store claims in context for downstream handlers
		c.Set(EditorIDKey, claims[EditorIDKey])
		c.Set(RoleKey, claims[RoleKey])
		c.Next()
	}
}

// RequireRole ensures the JWT is valid and carries one of roles.
func (a *Auth) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Next()
			return
		}

		a.RequireAuth()(c)
		if c.IsAborted() {
			return
		}

		role, _ := c.Get(RoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// Enabled reports whether tokens are checked.
func (a *Auth) Enabled() bool {
	return a.enabled
}
