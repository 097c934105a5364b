package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/market-query-api/pkg/query"
)

const (
	headerCache = "X-Cache"

	cacheHit  = "HIT"
	cacheMiss = "MISS"

	msgBadDate  = "date must be formatted as YYYY-MM-DD"
	msgInternal = "internal server error"
)

// Handler serves the three dataset endpoints.
type Handler struct {
	service *query.Service
	timeout time.Duration
	logger  zerolog.Logger
}

// InstitutionTrades serves GET /get-institution-trade.
func (h *Handler) InstitutionTrades(c *gin.Context) {
	f, err := query.ParseTradeFilter(c.Request.URL.Query())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msgBadDate})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.service.Trades(ctx, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

// Metadata serves GET /get-metadata.
func (h *Handler) Metadata(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.service.Metadata(ctx, query.ParseMetadataFilter(c.Request.URL.Query()))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

// Reports serves GET /get-reports.
func (h *Handler) Reports(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.service.Reports(ctx, query.ParseReportFilter(c.Request.URL.Query()))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// fail maps err to a response. Anything but a bad date is logged and
// answered with an opaque 500.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, query.ErrInvalidDate) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msgBadDate})
		return
	}

	event := h.logger.Error().Err(err).Str("path", c.Request.URL.Path)
	var qerr *query.Error
	if errors.As(err, &qerr) {
		event = event.Str("dataset", qerr.Dataset).Str("op", string(qerr.Op))
	}
	event.Msg("Query failed")

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

// respond serializes the records and writes them with cache validators.
func respond[T any](c *gin.Context, res *query.Result[T]) {
	body, err := json.Marshal(res.Records)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	outcome := cacheMiss
	if res.Hit {
		outcome = cacheHit
	}
	c.Set(outcomeKey, outcome)
	c.Set(sharedKey, res.Shared)
	c.Header(headerCache, outcome)

	etag := entityTag(body)
	c.Header("ETag", etag)
	c.Header("Cache-Control", cacheControl(res.Expires, time.Now()))

	if notModified(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
