// Package handler wires HTTP routes to the service layer. Each handler
// registers its own routes and guards them with the central authorization
// policy; business rules live below, in the services.
package handler

import "github.com/gin-gonic/gin"

// actorID returns the authenticated user's id from the request context.
func actorID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	return id
}
