package middleware

import "github.com/gin-gonic/gin"

// usernameKey is the key used to store the authenticated account's username
// in the request context. The username is stamped onto every row the request
// creates.
const usernameKey = contextKey("username")

// sessionKey is the key used to store the session token (the JWT jti) in the
// request context, so logout can revoke the matching session row.
const sessionKey = contextKey("sessionToken")

// GetUsernameFromContext retrieves the authenticated username from the Gin
// context. It returns the username and a boolean indicating if it was found.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	usernameVal := c.Request.Context().Value(usernameKey)
	if usernameVal == nil {
		return "", false
	}

	username, ok := usernameVal.(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// GetSessionTokenFromContext retrieves the session token of the current
// request from the Gin context.
func GetSessionTokenFromContext(c *gin.Context) (string, bool) {
	tokenVal := c.Request.Context().Value(sessionKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
