package http

import (
	"errors"
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

type MeHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Current identity
//	@Description	Resolves the session token (cookie or bearer) to the user behind it.
//	@Tags			Auth
//	@Security		SessionAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse	"the authenticated user"
//	@Failure		401	{object}	ErrorResponse	"missing, invalid or expired session"
//	@Failure		500	{object}	ErrorResponse	"store failure"
//	@Router			/v1/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The middleware already verified the token; Resolve re-checks the
	// subject still exists in the store.
	user, err := h.SessionService.Resolve(ctx, httpx.TokenFromRequest(r))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			httpx.ErrUnauthenticated.WriteError(w)
			return
		}
		log.Error("failed to resolve session", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
