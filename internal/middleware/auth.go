package middleware

import (
	"net/http"
	"strings"

	"github.com/martingh15/proyecto-backend/internal/respuesta"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Root     bool     `json:"root"`
	Refresh  bool     `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// TieneAlgunRol reports whether the token is root or carries any of roles.
func (c *JWTClaims) TieneAlgunRol(roles ...string) bool {
	if c == nil {
		return false
	}
	if c.Root {
		return true
	}
	for _, tiene := range c.Roles {
		for _, r := range roles {
			if tiene == r {
				return true
			}
		}
	}
	return false
}

// UsuarioID parses the subject user id. uuid.Nil when absent or malformed.
func (c *JWTClaims) UsuarioID() uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ParseToken validates an HS256 token signed with secret.
func ParseToken(tokenStr, secret string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = jwt.ErrTokenInvalidClaims
		}
		return nil, err
	}
	return claims, nil
}

// JWTAuth validates the Bearer token on every protected route. Refresh tokens
// are not accepted as access tokens.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, respuesta.Error(http.StatusUnauthorized, "Autenticación requerida"))
			return
		}

		claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil || claims.Refresh {
			c.AbortWithStatusJSON(http.StatusUnauthorized, respuesta.Error(http.StatusUnauthorized, "Token inválido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose token holds none of roles. Root passes.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetClaims(c).TieneAlgunRol(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, respuesta.Error(http.StatusForbidden, "No tiene permisos para realizar esta acción"))
			return
		}
		c.Next()
	}
}

// GetClaims retrieves typed claims from the Gin context, nil when missing.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
