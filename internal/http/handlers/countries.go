package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/gin-gonic/gin"
)

type CountryLister interface {
	List(ctx context.Context) ([]country.Country, error)
}

type CountriesHandler struct {
	svc CountryLister
	log *slog.Logger
}

func NewCountriesHandler(svc CountryLister, log *slog.Logger) *CountriesHandler {
	return &CountriesHandler{svc: svc, log: log}
}

// List serves the selectable countries as a bare JSON array.
func (h *CountriesHandler) List(ctx *gin.Context) {
	list, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list countries", "err", err)
		RespondUnavailable(ctx, "countries_unavailable", "Country list is temporarily unavailable")
		return
	}

	if list == nil {
		list = []country.Country{}
	}

	RespondJSONWithETag(ctx, http.StatusOK, list)
}
