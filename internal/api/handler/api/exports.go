// internal/api/handler/api/exports.go
package api

import (
	"errors"
	"net/http"

	"github.com/newthinker/fxsignals/internal/api/response"
	"github.com/newthinker/fxsignals/internal/core"
	"github.com/newthinker/fxsignals/internal/export"
	"github.com/newthinker/fxsignals/internal/storage/archive"
)

// ExportsHandler serves workbooks saved in the archive.
type ExportsHandler struct {
	store archive.Storage
}

// NewExportsHandler creates a new exports handler.
func NewExportsHandler(store archive.Storage) *ExportsHandler {
	return &ExportsHandler{store: store}
}

// List returns the names of the archived workbooks.
func (h *ExportsHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, core.WrapError(core.ErrArchiveFailed, err))
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"exports": names,
		"total":   len(names),
	})
}

// Get downloads one archived workbook.
func (h *ExportsHandler) Get(w http.ResponseWriter, r *http.Request, name string) {
	if err := archive.ValidName(name); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrNotFound, err))
		return
	}

	data, err := h.store.Read(r.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			response.Error(w, http.StatusNotFound, err)
			return
		}
		response.Error(w, http.StatusInternalServerError, core.WrapError(core.ErrArchiveFailed, err))
		return
	}

	response.Attachment(w, name, export.ContentType, data)
}
