package handler

import (
	"net/http"

	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness in the standard envelope.
func HealthCheck(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{"status": "ok"}, "Server is healthy")
}
