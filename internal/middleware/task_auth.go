package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
)

// RequireID validates the :id path parameter. Record ids are UUIDs, so
// anything else cannot name an existing record and is answered with 404.
func RequireID(notFoundMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, notFoundMessage)
			return
		}

		c.Set(constants.ContextKeyResourceID, id.String())
		c.Next()
	}
}

func RequireTaskID() gin.HandlerFunc {
	return RequireID("Task not found")
}

// GetID retrieves the validated :id from context
func GetID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyResourceID)
}

// GetTaskID retrieves the validated task id from context
func GetTaskID(c *gin.Context) string {
	return GetID(c)
}
