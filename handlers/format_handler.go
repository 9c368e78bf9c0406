package handlers

import (
	"net/http"

	"github.com/Dosada05/bracketview/models"
)

type FormatHandler struct{}

func NewFormatHandler() *FormatHandler {
	return &FormatHandler{}
}

// ListFormats godoc
// @Summary List supported bracket formats
// @Tags formats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /formats [get]
func (h *FormatHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"formats": models.SupportedFormats()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
