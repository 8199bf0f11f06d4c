package utils

import "github.com/gin-gonic/gin"

// Error writes the flat error body used across the API.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
