package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

// maxUploadBytes bounds the multipart form held in memory per request.
const maxUploadBytes = 10 << 20 // 10 MiB

type ItemCreateHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		Submit a bucket-list item
//	@Description	Accepts a multipart form with the item text, an optional description and an optional image. The image is pushed to object storage before anything is written; a failed upload leaves no record behind. Without an image the item is stored with an empty image URL.
//	@Tags			Items
//	@Security		SessionAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			text		formData	string	true	"the dream itself"
//	@Param			description	formData	string	false	"optional free-form detail"
//	@Param			userId		formData	string	false	"owner override; defaults to the session user"
//	@Param			image		formData	file	false	"optional image"
//	@Success		201	{object}	ItemResponse	"the stored item"
//	@Failure		400	{object}	ErrorResponse	"missing text"
//	@Failure		401	{object}	ErrorResponse	"no valid session"
//	@Failure		404	{object}	ErrorResponse	"owner does not exist"
//	@Failure		500	{object}	ErrorResponse	"upload or store failure"
//	@Router			/v1/items [post].
func (h *ItemCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.NewError(http.StatusBadRequest, httpx.ErrorCodeInvalidRequest,
			"expected a multipart form").WriteError(w)
		return
	}

	req := service.SubmitRequest{
		Owner:       r.FormValue("userId"),
		Text:        r.FormValue("text"),
		Description: r.FormValue("description"),
	}
	if req.Owner == "" {
		req.Owner = httpx.UserIDFromContext(ctx)
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()

		buf, readErr := io.ReadAll(file)
		if readErr != nil {
			httpx.NewError(http.StatusBadRequest, httpx.ErrorCodeInvalidRequest,
				"could not read the uploaded image").WriteError(w)
			return
		}
		req.Image = buf
		req.ImageMIME = header.Header.Get("Content-Type")
		if req.ImageMIME == "" {
			req.ImageMIME = http.DetectContentType(buf)
		}
	case errors.Is(err, http.ErrMissingFile):
		// No image is fine; the item keeps an empty URL.
	default:
		httpx.NewError(http.StatusBadRequest, httpx.ErrorCodeInvalidRequest,
			"could not read the uploaded image").WriteError(w)
		return
	}

	item, err := h.ItemService.Submit(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			httpx.NewError(http.StatusBadRequest, httpx.ErrorCodeInvalidRequest,
				"text is required").WriteError(w)
		case errors.Is(err, service.ErrUnknownUser):
			httpx.NewError(http.StatusNotFound, httpx.ErrorCodeNotFound,
				"owner not found").WriteError(w)
		case errors.Is(err, service.ErrUploadFailed):
			log.Error("image upload failed", "err", err)
			httpx.ErrUploadFailed.WriteError(w)
		default:
			log.Error("failed to submit item", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toItemResponse(item))
}
