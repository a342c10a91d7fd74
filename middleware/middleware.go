package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/authentication"
)

var Authentication gin.HandlerFunc = func(c *gin.Context) {
	clientToken := c.Request.Header.Get("token")
	if clientToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
		c.Abort()
		return
	}

	claims, err := authentication.ValidateToken(clientToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	c.Set("username", claims.Username)

	c.Next()
}
