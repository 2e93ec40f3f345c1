package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"events-api/pkg/ingest"
	"events-api/pkg/sheets"
	"events-api/repository"
	"events-api/types"

	"github.com/gin-gonic/gin"
)

// syncTimeout bounds the whole pull-parse-persist cycle. The sheet trigger
// retries on failure, so hanging here would only stack up requests.
const syncTimeout = 30 * time.Second

type SyncHandler struct {
	source sheets.RowSource
	events repository.EventsStore
	after  func()
}

func NewSyncHandler(source sheets.RowSource, events repository.EventsStore) *SyncHandler {
	return &SyncHandler{source: source, events: events}
}

// WithAfterSync registers a hook that runs after a successful sync, e.g. to
// broadcast fresh status over the websocket hub.
func (h *SyncHandler) WithAfterSync(fn func()) *SyncHandler {
	h.after = fn
	return h
}

// Sync pulls the sheet, rebuilds the canonical batch, and atomically replaces
// the stored catalog. An unreachable source is a hard failure: the previous
// batch stays untouched so a dead sheet can never blank the website.
func (h *SyncHandler) Sync(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), syncTimeout)
	defer cancel()

	batch, err := ingest.Sync(ctx, h.source)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.NewErrorResponse(types.ErrorCodeUpstream, err.Error()))
		return
	}

	if err := h.events.ReplaceBatch(ctx, batch.Events); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to persist batch"))
		return
	}

	if h.after != nil {
		h.after()
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{
		"message":       fmt.Sprintf("Synced %d events from sheet", len(batch.Events)),
		"publicEvents":  batch.Public,
		"privateEvents": batch.Private,
	}))
}
