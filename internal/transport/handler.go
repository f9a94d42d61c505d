// Package transport exposes the dispatch service over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/dispatch"
)

// MaxRequestBodySize bounds tool parameter payloads
const MaxRequestBodySize = 1 << 20

// DefaultRequestTimeout matches the bearer transport's invoke deadline
const DefaultRequestTimeout = 5 * time.Minute

// ErrorResponse is the body returned for failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandlerOptions configures NewHandler
type HandlerOptions struct {
	Logger         hclog.Logger
	RequestTimeout time.Duration
	Version        string
}

// NewHandler builds the gin router for svc
func NewHandler(svc *dispatch.Service, opts HandlerOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(logger),
		requestSizeLimiter(MaxRequestBodySize),
	)

	r.GET("/health", healthCheck(opts.Version))
	r.GET("/tools", listTools(svc))
	r.POST("/tools/:name", runTool(svc, logger, timeout))

	return r
}

func healthCheck(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "available",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func listTools(svc *dispatch.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": svc.Operations()})
	}
}

func runTool(svc *dispatch.Service, logger hclog.Logger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		name := c.Param("name")
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondError(c, logger, apperrors.NewInvalidParameterError("request body too large", err))
				return
			}
			respondError(c, logger, apperrors.NewInvalidParameterError("cannot read request body", err))
			return
		}
		if len(body) > 0 && !json.Valid(body) {
			respondError(c, logger, apperrors.NewInvalidParameterError("request body is not valid JSON", nil))
			return
		}

		result, err := svc.Handle(ctx, name, body)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && !apperrors.IsType(err, apperrors.ErrorTypeBackend) {
				err = apperrors.NewBackendError("operation timed out", err)
			}
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, logger hclog.Logger, err error) {
	code := apperrors.GetStatusCode(err)
	errType := string(apperrors.ErrorTypeInternal)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		errType = string(appErr.Type)
	}

	logger.Warn("request failed", "path", c.Request.URL.Path, "status_code", code, "error", err)

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   errType,
		Message: err.Error(),
	})
}
