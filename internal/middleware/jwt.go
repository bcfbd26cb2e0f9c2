package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LoginPath is where unauthenticated requests get redirected.
const LoginPath = "/login/"

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// GenerateToken issues an HS256 token carrying the user's id, role and
// superuser flag. Role is stored lowercase; users without a profile get
// an empty role claim.
func GenerateToken(userID uint, role string, superuser bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"role":      strings.ToLower(role),
		"superuser": superuser,
		"exp":       time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and verifies a signed token string.
func ValidateToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
}

// RequireAuth ensures a valid JWT is present. Requests without one are
// redirected to the login entry point instead of failing outright.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			redirectToLogin(c)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := ValidateToken(tokenString)
		if err != nil || !token.Valid {
			redirectToLogin(c)
			return
		}

		// Store claims in context for downstream handlers
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			redirectToLogin(c)
			return
		}
		c.Set("user_id", claims["user_id"])
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		if super, ok := claims["superuser"].(bool); ok {
			c.Set("is_superuser", super)
		}

		c.Next()
	}
}

// RequireRoles ensures the JWT is valid and the user may act in one of
// the given roles. Superusers and admins always pass; everyone else
// passes only if their role is a case-insensitive member of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		// First ensure basic auth
		req := RequireAuth()
		req(c)
		if c.IsAborted() {
			return
		}

		if c.GetBool("is_superuser") {
			c.Next()
			return
		}

		role := strings.ToLower(c.GetString("role"))
		if role == "admin" {
			c.Next()
			return
		}
		if _, ok := allowed[role]; ok && role != "" {
			c.Next()
			return
		}

		Forbidden(c)
	}
}

// Forbidden renders the shared 403 response.
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// UserID extracts the acting user's id from the JWT claims stored on
// the context.
func UserID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}

// Role returns the (lowercase) role claim, or "" when absent.
func Role(c *gin.Context) string {
	return strings.ToLower(c.GetString("role"))
}

// IsSuperuser reports the superuser claim.
func IsSuperuser(c *gin.Context) bool {
	return c.GetBool("is_superuser")
}
