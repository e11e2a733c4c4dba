package api

import "github.com/gin-gonic/gin"

type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	errorInternalServer    = errorMessage{1000, "internal server error"}
	errorInvalidParameters = errorMessage{1001, "invalid parameters"}
	errorNotAuthenticated  = errorMessage{1002, "not authenticated"}
	errorRecordNotFound    = errorMessage{1003, "consent record not found"}
	errorRequestNotFound   = errorMessage{1004, "consent request not found"}
)

func abortWithEncoding(c *gin.Context, code int, message errorMessage, errs ...error) {
	for _, err := range errs {
		log.WithError(err).Error(message.Message)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
