package http

import (
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

type ItemGroupedHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		List items grouped by user
//	@Description	Returns every user together with their items. Users without items appear with an empty task list.
//	@Tags			Items
//	@Produce		json
//	@Success		200	{object}	GroupedItemsResponse
//	@Failure		500	{object}	ErrorResponse	"store failure"
//	@Router			/v1/items/by-user [get].
func (h *ItemGroupedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	groups, err := h.ItemService.GroupedByUser(ctx)
	if err != nil {
		log.Error("failed to group items by user", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	out := GroupedItemsResponse{UserTasks: make([]UserItemsResponse, 0, len(groups))}
	for _, g := range groups {
		out.UserTasks = append(out.UserTasks, UserItemsResponse{
			User:  toUserResponse(g.User),
			Tasks: toItemResponses(g.Items),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
