package http

import (
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

type ItemListHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		List all items
//	@Description	Returns every bucket-list item across all users, newest first.
//	@Tags			Items
//	@Produce		json
//	@Success		200	{object}	ItemListResponse
//	@Failure		500	{object}	ErrorResponse	"store failure"
//	@Router			/v1/items [get].
func (h *ItemListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	items, err := h.ItemService.List(ctx)
	if err != nil {
		log.Error("failed to list items", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ItemListResponse{Items: toItemResponses(items)})
}
