package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karacadev/backoffice/internal/platform/storage"
)

// getHealth godoc
// @Summary Show the status of the server.
// @Description Reports which storage backend is serving and whether it fell back to the embedded file
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Success 503 {object} map[string]interface{}
// @Router /health [get]
func getHealth(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{
			"status":   "ok",
			"storage":  store.BackendName(),
			"degraded": store.Degraded(),
		}
		if err := store.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "unavailable"
			health["error"] = err.Error()
		}
		c.JSON(status, health)
	}
}
