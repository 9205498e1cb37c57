package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/villagegrid/powerline-alerts/internal/models"
	"github.com/villagegrid/powerline-alerts/internal/repository"
)

const actorKey = "actor"

// ActorHeader selects the acting user. This is a stand-in for real
// authentication: without the header the first seeded user is the actor,
// mirroring the front-end's mocked session.
const ActorHeader = "X-User-ID"

// Session resolves the acting user for every request and stores it in
// the gin context.
func Session(users repository.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			actor *models.User
			err   error
		)
		if id := c.GetHeader(ActorHeader); id != "" {
			actor, err = users.GetUserByID(c.Request.Context(), id)
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
				return
			}
		} else {
			actor, err = users.CurrentUser(c.Request.Context())
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) *models.User {
	return c.MustGet(actorKey).(*models.User)
}
