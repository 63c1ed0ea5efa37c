package handlers

import (
	"net/http"

	"taskboard-be/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser pulls the authenticated caller's id out of the gin context.
// Returns false (and writes the 401) when the middleware did not run.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(raw.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	return oid, true
}

// currentUserName returns the caller's display name for event payloads.
func currentUserName(c *gin.Context) string {
	if name, exists := c.Get("userName"); exists {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}
	return "Anonymous User"
}

// pathObjectID parses an ObjectID path parameter, writing a 400 on failure.
func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + param,
		})
		return primitive.NilObjectID, false
	}
	return oid, true
}

// deniedResponse is the single shape for both missing and forbidden
// projects, so existence never leaks to non-members.
func deniedResponse(c *gin.Context) {
	c.JSON(http.StatusForbidden, models.ErrorResponse{
		Error:   "access_denied",
		Message: "Project not found or access denied",
	})
}
