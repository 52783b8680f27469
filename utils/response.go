package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func RespondWithData(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func RespondWithMessage(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Success: true, Message: message})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Success: false, Message: message})
}

// ErrorResponder turns service errors into envelopes. Debug is true outside
// production and adds the underlying cause to the body.
type ErrorResponder struct {
	Debug  bool
	Logger *slog.Logger
}

func NewErrorResponder(debug bool, logger *slog.Logger) *ErrorResponder {
	return &ErrorResponder{Debug: debug, Logger: logger}
}

func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	code := HTTPStatus(err)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = &AppError{Kind: KindPersistence, Message: "Internal server error", Err: err}
	}

	body := Envelope{Success: false, Message: appErr.Message}
	if code >= http.StatusInternalServerError {
		r.Logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		if r.Debug && appErr.Err != nil {
			body.Error = appErr.Err.Error()
		}
	}
	c.AbortWithStatusJSON(code, body)
}

// Recovery replaces gin's default recovery so panics also produce an envelope.
func (r *ErrorResponder) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		r.Respond(c, fmt.Errorf("panic: %v", recovered))
	})
}
