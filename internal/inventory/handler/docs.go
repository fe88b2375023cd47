package handler

import (
	"net/http"

	"github.com/abgdnv/inventory/internal/inventory/docs"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/swaggo/swag"
)

// Docs serves the OpenAPI document of the REST API.
func (h *Handler) Docs(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error reading API documentation", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to read API documentation")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
