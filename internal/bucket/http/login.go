package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Validates credentials and issues a 24h session token, returned in the body and set as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"name and password"
//	@Success		200		{object}	SessionResponse	"user, token, expiry"
//	@Failure		400		{object}	ErrorResponse	"missing name or password"
//	@Failure		401		{object}	ErrorResponse	"wrong password"
//	@Failure		404		{object}	ErrorResponse	"no such user"
//	@Failure		500		{object}	ErrorResponse	"store or signing failure"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	session, err := h.SessionService.Login(ctx, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.NewError(http.StatusBadRequest, httpx.ErrorCodeInvalidRequest,
				"name and password are required").WriteError(w)
		case errors.Is(err, service.ErrUserNotFound):
			httpx.NewError(http.StatusNotFound, httpx.ErrorCodeNotFound,
				"user not found").WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		User:      toUserResponse(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
