package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/media"
	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/service"
)

// MediaHandler accepts photo uploads from owners.
type MediaHandler struct {
	store    media.Store
	maxBytes int64
}

// NewMediaHandler panics if store is nil.
func NewMediaHandler(store media.Store, maxBytes int64) *MediaHandler {
	if store == nil {
		panic("nil media store passed to NewMediaHandler")
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &MediaHandler{store: store, maxBytes: maxBytes}
}

// Upload handles POST /v1/owner/media with a multipart "file" field and
// returns the reference to put in image or cover_image fields.
func (h *MediaHandler) Upload(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if u.Role != model.RoleOwner {
		return writeError(c, &service.Error{Kind: service.KindForbidden, Message: "only owners can upload media"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, &service.Error{Kind: service.KindValidation, Message: "file is required"})
	}
	if fh.Size > h.maxBytes {
		return writeError(c, &service.Error{Kind: service.KindValidation, Message: "file is too large"})
	}
	ct := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, "image/") {
		return writeError(c, &service.Error{Kind: service.KindValidation, Message: "file must be an image"})
	}
	src, err := fh.Open()
	if err != nil {
		return writeError(c, &service.Error{Kind: service.KindValidation, Message: "cannot read file"})
	}
	defer src.Close()

	ref, err := h.store.Upload(c.Request().Context(), fh.Filename, ct, src)
	if errors.Is(err, media.ErrDisabled) {
		return c.JSON(http.StatusServiceUnavailable, errorBody("UNAVAILABLE", err.Error()))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ref": ref})
}
