package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/helpline-analytics/internal/adapter/dataset"
	"github.com/couchcryptid/helpline-analytics/internal/adapter/ics"
	"github.com/couchcryptid/helpline-analytics/internal/domain"
	"github.com/couchcryptid/helpline-analytics/internal/session"
)

// SessionAPI is the slice of session behavior the HTTP layer needs.
type SessionAPI interface {
	CheckReadiness(ctx context.Context) error
	LoadDataset(ctx context.Context, path string) (dataset.Metadata, error)
	RefreshCatalog(ctx context.Context) (int, error)
	View(ctx context.Context, filter session.Filter, params domain.ScoreParams) (*session.View, error)
}

type handlers struct {
	session SessionAPI
	logger  *slog.Logger
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *handlers) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.session.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

type loadRequest struct {
	Path string `json:"path" binding:"required"`
}

// loadDataset loads or replaces the session's dataset snapshot. Schema
// violations are fatal to the load attempt and reported with the missing
// columns; the previous snapshot stays in place.
func (h *handlers) loadDataset(c *gin.Context) {
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	meta, err := h.session.LoadDataset(c.Request.Context(), req.Path)
	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "schema violation",
				"missing": schemaErr.Missing,
			})
			return
		}
		h.logger.Error("dataset load failed", "path", req.Path, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// refreshFestivals is the explicit catalog invalidation trigger. A feed
// failure is reported but leaves the service degraded, not broken, so the
// response is 200 with the degradation noted.
func (h *handlers) refreshFestivals(c *gin.Context) {
	count, err := h.session.RefreshCatalog(c.Request.Context())
	if err != nil {
		var feedErr *ics.FeedUnavailableError
		if errors.As(err, &feedErr) {
			c.JSON(http.StatusOK, gin.H{"events": 0, "degraded": true, "error": feedErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": count, "degraded": false})
}

func (h *handlers) view(c *gin.Context) {
	view, ok := h.computeView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) kpis(c *gin.Context) {
	if view, ok := h.computeView(c); ok {
		c.JSON(http.StatusOK, view.KPIs)
	}
}

func (h *handlers) seriesDaily(c *gin.Context) {
	if view, ok := h.computeView(c); ok {
		c.JSON(http.StatusOK, gin.H{"series": view.Daily, "insights": view.Insights.Daily})
	}
}

func (h *handlers) seriesHourly(c *gin.Context) {
	if view, ok := h.computeView(c); ok {
		c.JSON(http.StatusOK, gin.H{
			"series":      view.Hourly,
			"by_festival": view.HourlyByFestival,
			"insights":    view.Insights.Hourly,
		})
	}
}

func (h *handlers) categories(c *gin.Context) {
	if view, ok := h.computeView(c); ok {
		c.JSON(http.StatusOK, view.Categories)
	}
}

func (h *handlers) festivals(c *gin.Context) {
	if view, ok := h.computeView(c); ok {
		c.JSON(http.StatusOK, view.Festivals)
	}
}

func (h *handlers) significant(c *gin.Context) {
	if view, ok := h.computeView(c); ok {
		c.JSON(http.StatusOK, view.Significant)
	}
}

// computeView parses filter and scoring query params, computes the view,
// and writes the error response itself when something is wrong.
func (h *handlers) computeView(c *gin.Context) (*session.View, bool) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	params, err := parseScoreParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	view, err := h.session.View(c.Request.Context(), filter, params)
	if err != nil {
		if errors.Is(err, session.ErrNoDataset) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return nil, false
		}
		h.logger.Error("view computation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return view, true
}

func parseFilter(c *gin.Context) (session.Filter, error) {
	var filter session.Filter

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		filter.To = t
	}
	filter.Categories = splitParam(c.Query("categories"))
	filter.Jurisdictions = splitParam(c.Query("jurisdictions"))
	return filter, nil
}

// parseScoreParams reads sig_* overrides; all absent means session defaults.
func parseScoreParams(c *gin.Context) (domain.ScoreParams, error) {
	var params domain.ScoreParams

	category := c.Query("sig_category")
	thresholdStr := c.Query("sig_threshold_pct")
	minCallsStr := c.Query("sig_min_calls")
	if category == "" && thresholdStr == "" && minCallsStr == "" {
		return params, nil // zero value selects session defaults
	}

	defaults := domain.DefaultScoreParams()
	params = defaults
	if category != "" {
		params.Category = category
	}
	if thresholdStr != "" {
		v, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil {
			return params, errors.New("invalid sig_threshold_pct")
		}
		params.ThresholdPct = v
	}
	if minCallsStr != "" {
		v, err := strconv.Atoi(minCallsStr)
		if err != nil || v < 0 {
			return params, errors.New("invalid sig_min_calls")
		}
		params.MinCalls = v
	}
	return params, nil
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
