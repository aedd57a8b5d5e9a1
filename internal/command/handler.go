package command

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nftrelay/internal/deduplication"
	"nftrelay/internal/logger"
	"nftrelay/internal/poller"
	"nftrelay/internal/subscription"
	apperrors "nftrelay/pkg/errors"
)

// TickRunner triggers an out-of-schedule poll.
type TickRunner interface {
	Tick(ctx context.Context) (poller.TickReport, error)
}

type StatsProvider interface {
	Stats(ctx context.Context) (deduplication.Stats, error)
}

type trackRequest struct {
	Collection string `json:"collection" binding:"required"`
}

type localeRequest struct {
	Locale string `json:"locale" binding:"required"`
}

type subscriptionsResponse struct {
	Subscriptions []subscription.Entry `json:"subscriptions"`
}

// DestinationResponse is the state of one destination after a request.
type DestinationResponse struct {
	Destination string   `json:"destination"`
	Locale      string   `json:"locale"`
	Collections []string `json:"collections"`
	Reply       *Reply   `json:"reply,omitempty"`
}

type Handler struct {
	service *Service
	poller  TickRunner
	stats   StatsProvider
	logger  logger.Logger
}

func NewHandler(service *Service, tickRunner TickRunner, stats StatsProvider, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		poller:  tickRunner,
		stats:   stats,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		dest := v1.Group("/destinations/:destination")
		{
			dest.GET("/collections", h.ListCollections)
			dest.POST("/collections", h.TrackCollection)
			dest.DELETE("/collections", h.ClearCollections)
			dest.DELETE("/collections/:collection", h.UntrackCollection)
			dest.PUT("/locale", h.SetLocale)
		}

		v1.GET("/subscriptions", h.ListSubscriptions)
		v1.POST("/poll", h.Poll)
		v1.GET("/stats", h.Stats)
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	} else {
		h.logger.DebugwCtx(c.Request.Context(), "Request rejected", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, apperrors.ToErrorResponse(err))
}

// ListCollections godoc
// @Summary      List tracked collections
// @Description  Collections and language of one destination
// @Tags         destinations
// @Produce      json
// @Param        destination  path      string  true  "Chat or channel id"
// @Success      200          {object}  DestinationResponse
// @Router       /destinations/{destination}/collections [get]
func (h *Handler) ListCollections(c *gin.Context) {
	c.JSON(http.StatusOK, h.destination(c.Param("destination"), nil))
}

// TrackCollection godoc
// @Summary      Track a collection
// @Description  Accepts a collection id or a marketplace collection link
// @Tags         destinations
// @Accept       json
// @Produce      json
// @Param        destination  path      string        true  "Chat or channel id"
// @Param        request      body      trackRequest  true  "Collection id or link"
// @Success      200          {object}  DestinationResponse
// @Failure      400          {object}  map[string]interface{}
// @Failure      500          {object}  map[string]interface{}
// @Router       /destinations/{destination}/collections [post]
func (h *Handler) TrackCollection(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, apperrors.ErrValidation.WithCause(err))
		return
	}
	h.execute(c, Track, req.Collection)
}

// UntrackCollection godoc
// @Summary      Stop tracking a collection
// @Tags         destinations
// @Produce      json
// @Param        destination  path      string  true  "Chat or channel id"
// @Param        collection   path      string  true  "Collection id"
// @Success      200          {object}  DestinationResponse
// @Failure      400          {object}  map[string]interface{}
// @Failure      500          {object}  map[string]interface{}
// @Router       /destinations/{destination}/collections/{collection} [delete]
func (h *Handler) UntrackCollection(c *gin.Context) {
	h.execute(c, Stop, c.Param("collection"))
}

// ClearCollections godoc
// @Summary      Stop tracking everything
// @Description  The language preference is kept
// @Tags         destinations
// @Produce      json
// @Param        destination  path      string  true  "Chat or channel id"
// @Success      200          {object}  DestinationResponse
// @Failure      500          {object}  map[string]interface{}
// @Router       /destinations/{destination}/collections [delete]
func (h *Handler) ClearCollections(c *gin.Context) {
	h.execute(c, StopAll, "")
}

// SetLocale godoc
// @Summary      Set the alert language
// @Tags         destinations
// @Accept       json
// @Produce      json
// @Param        destination  path      string         true  "Chat or channel id"
// @Param        request      body      localeRequest  true  "Language code"
// @Success      200          {object}  DestinationResponse
// @Failure      400          {object}  map[string]interface{}
// @Failure      500          {object}  map[string]interface{}
// @Router       /destinations/{destination}/locale [put]
func (h *Handler) SetLocale(c *gin.Context) {
	var req localeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, apperrors.ErrValidation.WithCause(err))
		return
	}
	h.execute(c, Language, req.Locale)
}

// ListSubscriptions godoc
// @Summary      List all subscriptions
// @Tags         subscriptions
// @Produce      json
// @Success      200  {object}  subscriptionsResponse
// @Router       /subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	c.JSON(http.StatusOK, subscriptionsResponse{Subscriptions: h.service.store.All()})
}

// Poll runs a tick outside the schedule. The tick is detached from the
// request so a client disconnect cannot abandon marked events.
// @Summary      Poll now
// @Description  Runs a tick outside the schedule
// @Tags         poller
// @Produce      json
// @Success      200  {object}  poller.TickReport
// @Failure      409  {object}  map[string]interface{}
// @Router       /poll [post]
func (h *Handler) Poll(c *gin.Context) {
	report, err := h.poller.Tick(context.WithoutCancel(c.Request.Context()))
	if errors.Is(err, poller.ErrTickInProgress) {
		h.HandleError(c, apperrors.ErrConflict.WithCause(err).WithMessage("a poll is already running"))
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Stats godoc
// @Summary      Seen-set statistics
// @Tags         poller
// @Produce      json
// @Success      200  {object}  deduplication.Stats
// @Failure      500  {object}  map[string]interface{}
// @Router       /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) execute(c *gin.Context, name Name, argument string) {
	destination := c.Param("destination")
	reply, err := h.service.Execute(c.Request.Context(), Request{
		Destination: destination,
		Command:     name,
		Argument:    argument,
		Source:      SourceHTTP,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.destination(destination, &reply))
}

func (h *Handler) destination(destination string, reply *Reply) DestinationResponse {
	return DestinationResponse{
		Destination: destination,
		Locale:      h.service.store.Locale(destination),
		Collections: h.service.store.List(destination),
		Reply:       reply,
	}
}
