package middleware

import "github.com/gin-gonic/gin"

type contextKey string

// userIDKey holds the JWT subject of the caller.
const userIDKey = contextKey("userID")

// GetUserIDFromContext returns the caller's JWT subject, looking first at the gin keys
// and then at the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok
	}
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok
}
