package middleware

import "github.com/gin-gonic/gin"

// authorEmailKey is the key used to store the authenticated admin's email in
// the context.
const authorEmailKey = contextKey("authorEmail")

// GetAuthorEmailFromContext retrieves the authenticated admin email from the
// Gin context. It returns the email and a boolean indicating if it was found.
func GetAuthorEmailFromContext(c *gin.Context) (string, bool) {
	emailVal, exists := c.Get(string(authorEmailKey))
	if !exists {
		// check the request context as well
		ctxVal := c.Request.Context().Value(authorEmailKey)
		if ctxVal != nil {
			if email, ok := ctxVal.(string); ok {
				return email, true
			}
		}
		return "", false
	}

	email, ok := emailVal.(string)
	if !ok {
		return "", false
	}
	return email, true
}
