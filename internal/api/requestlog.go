package api

import (
	"context"
	"fmt"
	"time"

	"gymtracker/gym-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader     = "X-Request-ID"
	ContextRequestIDKey = "requestID"

	apiLogWriteTimeout = 2 * time.Second
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs "METHOD - path - status - duration" per request, at error
// level for 5xx and warn for 4xx. When apiLogs is non-nil the entry is also
// stored there in the background.
func RequestLogger(log *logrus.Logger, apiLogs repository.APILogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		userID, _ := getUserIDFromContext(c)
		role, _ := getUserRoleFromContext(c)

		entry := repository.APILogEntry{
			RequestID:  c.GetString(ContextRequestIDKey),
			Method:     c.Request.Method,
			Path:       c.Request.URL.RequestURI(),
			Status:     status,
			DurationMs: duration.Milliseconds(),
			ClientIP:   c.ClientIP(),
			UserID:     userID,
			Role:       role,
		}

		fields := logrus.Fields{
			"requestId": entry.RequestID,
			"clientIp":  entry.ClientIP,
		}
		if userID != 0 {
			fields["userId"] = userID
		}
		if email := c.GetString(ContextEmailKey); email != "" {
			fields["userEmail"] = email
		}
		logEntry := log.WithFields(fields)
		if len(c.Errors) > 0 {
			logEntry = logEntry.WithField("errors", c.Errors.String())
		}

		msg := fmt.Sprintf("%s - %s - %d - %dms", entry.Method, entry.Path, status, entry.DurationMs)
		switch {
		case status >= 500:
			logEntry.Error(msg)
		case status >= 400:
			logEntry.Warn(msg)
		default:
			logEntry.Info(msg)
		}

		if apiLogs == nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), apiLogWriteTimeout)
			defer cancel()
			if err := apiLogs.Insert(ctx, entry); err != nil {
				log.WithError(err).WithField("requestId", entry.RequestID).Warn("failed to store api log")
			}
		}()
	}
}
