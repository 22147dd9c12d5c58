package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/elastic"
	"github.com/jonesrussell/pulse-analytics/internal/logger"
	"github.com/jonesrussell/pulse-analytics/internal/service"
)

// AnalyticsService is the pipeline surface the HTTP layer depends on.
type AnalyticsService interface {
	CompileAndRun(ctx context.Context, criteria domain.FilterCriteria) (*service.PostsResult, error)
	SentimentSummary(ctx context.Context, criteria domain.FilterCriteria) ([]service.SentimentCount, error)
	KeywordBreakdown(ctx context.Context, criteria domain.FilterCriteria) ([]service.KeywordStat, error)
	MentionTrend(ctx context.Context, criteria domain.FilterCriteria, interval string) ([]service.TrendPoint, error)
	SourceDistribution(ctx context.Context, criteria domain.FilterCriteria) ([]service.SourceCount, error)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler holds HTTP request handlers
type Handler struct {
	analytics AnalyticsService
	es        *elastic.Client
	logger    logger.Logger
}

// NewHandler creates a new handler instance
func NewHandler(analytics AnalyticsService, es *elastic.Client, log logger.Logger) *Handler {
	return &Handler{
		analytics: analytics,
		es:        es,
		logger:    log,
	}
}

// Posts handles the posts listing endpoint (both GET and POST).
func (h *Handler) Posts(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	result, err := h.analytics.CompileAndRun(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, criteria, "posts pipeline failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Sentiments handles the sentiment summary endpoint.
func (h *Handler) Sentiments(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	counts, err := h.analytics.SentimentSummary(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, criteria, "sentiment summary failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sentiments": counts})
}

// Keywords handles the keyword breakdown endpoint.
func (h *Handler) Keywords(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	stats, err := h.analytics.KeywordBreakdown(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, criteria, "keyword breakdown failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": stats})
}

// Trend handles the mention trend endpoint.
func (h *Handler) Trend(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	interval := c.DefaultQuery("interval", "day")
	points, err := h.analytics.MentionTrend(c.Request.Context(), criteria, interval)
	if err != nil {
		h.fail(c, criteria, "mention trend failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": points})
}

// Sources handles the source distribution endpoint.
func (h *Handler) Sources(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	counts, err := h.analytics.SourceDistribution(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, criteria, "source distribution failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": counts})
}

// bindCriteria builds FilterCriteria from either the query string (GET) or
// the JSON body (POST). topic_id is the only required field.
func (h *Handler) bindCriteria(c *gin.Context) (domain.FilterCriteria, bool) {
	var criteria domain.FilterCriteria

	if c.Request.Method == http.MethodGet {
		criteria = parseQueryCriteria(c)
	} else if err := c.ShouldBindJSON(&criteria); err != nil {
		h.logger.Warn("invalid request body",
			logger.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return criteria, false
	}

	if criteria.TopicID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "topic_id is required",
			Code:      "VALIDATION_ERROR",
			Timestamp: time.Now(),
		})
		return criteria, false
	}
	return criteria, true
}

// parseQueryCriteria parses filter parameters from the query string.
func parseQueryCriteria(c *gin.Context) domain.FilterCriteria {
	criteria := domain.FilterCriteria{
		Category:    c.Query("category"),
		Sentiment:   c.Query("sentiment"),
		MentionType: c.Query("mention_type"),
		Emotion:     c.Query("emotion"),
		FromDate:    c.Query("from_date"),
		ToDate:      c.Query("to_date"),
	}

	if topicID := c.Query("topic_id"); topicID != "" {
		if id, err := strconv.ParseInt(topicID, 10, 64); err == nil {
			criteria.TopicID = id
		}
	}
	if sources := c.Query("sources"); sources != "" {
		criteria.Sources = strings.Split(sources, ",")
	}
	if rating := c.Query("rating"); rating != "" {
		if r, err := strconv.Atoi(rating); err == nil {
			criteria.Rating = r
		}
	}

	return criteria
}

func (h *Handler) fail(c *gin.Context, criteria domain.FilterCriteria, msg string, err error) {
	h.logger.Error(msg,
		logger.Int64("topic_id", criteria.TopicID),
		logger.String("category", criteria.Category),
		logger.Error(err),
	)

	statusCode := http.StatusInternalServerError
	errorCode := "ANALYTICS_ERROR"
	if errors.Is(err, context.DeadlineExceeded) {
		statusCode = http.StatusGatewayTimeout
		errorCode = "TIMEOUT"
	}

	c.JSON(statusCode, ErrorResponse{
		Error:     err.Error(),
		Code:      errorCode,
		Timestamp: time.Now(),
	})
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	}

	if err := h.es.HealthCheck(c.Request.Context()); err != nil {
		status["status"] = "unhealthy"
		status["elasticsearch"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ReadinessCheck handles readiness check requests
func (h *Handler) ReadinessCheck(c *gin.Context) {
	h.HealthCheck(c)
}
