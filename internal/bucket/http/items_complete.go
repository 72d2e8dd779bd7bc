package http

import (
	"errors"
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

type ItemCompleteHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		Mark an item completed
//	@Description	Flips the item to completed and returns it. Completing an already-completed item changes nothing and still returns 200.
//	@Tags			Items
//	@Produce		json
//	@Param			id	path		string	true	"item ID"
//	@Success		200	{object}	ItemResponse	"the item after the flip"
//	@Failure		404	{object}	ErrorResponse	"no such item"
//	@Failure		500	{object}	ErrorResponse	"store failure"
//	@Router			/v1/items/{id}/complete [patch].
func (h *ItemCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	item, err := h.ItemService.MarkComplete(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			httpx.NewError(http.StatusNotFound, httpx.ErrorCodeNotFound,
				"item not found").WriteError(w)
			return
		}
		log.Error("failed to mark item completed", "err", err, "item_id", r.PathValue("id"))
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}
