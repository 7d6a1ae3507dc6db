package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
)

// respondError maps a logic error onto an HTTP status. Internal detail is
// only exposed outside release mode; fallbackMsg is what production callers
// see for unexpected failures.
func respondError(c *gin.Context, log *logger.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, logic.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, logic.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Conversation not found or access denied"})
	case errors.Is(err, logic.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
	case errors.Is(err, logic.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
	default:
		log.Error(fallbackMsg, "error", err)
		body := gin.H{"message": fallbackMsg}
		if gin.Mode() != gin.ReleaseMode {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
