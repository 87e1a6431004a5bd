package middleware

import (
	"net/http"
	"strings"

	"dscatalog/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
// The subject carries the user's email.
type JWTClaims struct {
	UserID      int64    `json:"user_id"`
	FirstName   string   `json:"first_name"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// HasAnyAuthority reports whether the token grants one of the given roles.
func (c *JWTClaims) HasAnyAuthority(roles ...string) bool {
	for _, have := range c.Authorities {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Full authentication is required to access this resource")
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose token grants none of the allowed roles.
// It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.HasAnyAuthority(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New(http.StatusForbidden, "Forbidden", "Access is denied", c.Request.URL.Path))
			return
		}
		c.Next()
	}
}

// GetClaims returns the typed claims stored by JWTAuth, or nil.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="dscatalog"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		apierror.New(http.StatusUnauthorized, "Unauthorized", msg, c.Request.URL.Path))
}
