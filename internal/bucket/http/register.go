package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

type RegisterHandler struct {
	SessionService *service.SessionService
}

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Register a new user
//	@Description	Creates a user account. Names are unique; passwords are stored hashed.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"name and password"
//	@Success		201		{object}	UserResponse	"the created user"
//	@Failure		400		{object}	ErrorResponse	"missing name or password"
//	@Failure		409		{object}	ErrorResponse	"name already taken"
//	@Failure		500		{object}	ErrorResponse	"store failure"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.SessionService.Register(ctx, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.NewError(http.StatusBadRequest, httpx.ErrorCodeInvalidRequest,
				"name and password are required").WriteError(w)
		case errors.Is(err, service.ErrDuplicateName):
			httpx.ErrDuplicateName.WriteError(w)
		default:
			log.Error("failed to register user", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
