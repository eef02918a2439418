package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/geocoder89/signup/internal/domain/signup"
	"github.com/geocoder89/signup/internal/http/middlewares"
	"github.com/geocoder89/signup/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type PermittedCountries interface {
	Permitted(ctx context.Context) country.Set
}

type RegistrationHandler struct {
	validator *signup.Validator
	countries PermittedCountries
	sink      signup.Sink
	catalog   *signup.Catalog
	prom      *observability.Prom
	log       *slog.Logger
}

func NewRegistrationHandler(
	validator *signup.Validator,
	countries PermittedCountries,
	sink signup.Sink,
	catalog *signup.Catalog,
	prom *observability.Prom,
	log *slog.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		validator: validator,
		countries: countries,
		sink:      sink,
		catalog:   catalog,
		prom:      prom,
		log:       log,
	}
}

// Submit validates the whole form and, when it passes, hands it to the sink.
func (h *RegistrationHandler) Submit(ctx *gin.Context) {
	in, ok := BindRegistration(ctx)
	if !ok {
		return
	}

	rctx, span := observability.StartSpan(ctx.Request.Context(), "signup.validate",
		attribute.String("signup.mode", "submit"))
	defer span.End()

	res := h.validator.Validate(in, h.countries.Permitted(rctx))
	h.observe("submit", res)
	span.SetAttributes(attribute.Bool("signup.valid", res.Valid()))

	if !res.Valid() {
		msgs := h.messages(ctx)
		RespondUnprocessable(ctx, "Registration data is invalid", gin.H{
			"fields": res.Messages(msgs),
			"kinds":  res.Kinds(),
		})
		return
	}

	receipt, err := h.sink.Submit(rctx, in)
	if err != nil {
		h.log.ErrorContext(rctx, "submit registration", "err", err)
		RespondInternal(ctx, "Could not submit registration")
		return
	}

	ctx.JSON(http.StatusOK, receipt)
}

// ValidateField re-checks a single field, for inline feedback on blur/change.
func (h *RegistrationHandler) ValidateField(ctx *gin.Context) {
	field := ctx.Query("field")

	in, ok := BindRegistration(ctx)
	if !ok {
		return
	}

	rctx, span := observability.StartSpan(ctx.Request.Context(), "signup.validate",
		attribute.String("signup.mode", "field"),
		attribute.String("signup.field", field))
	defer span.End()

	res, err := h.validator.ValidateField(in, field, h.countries.Permitted(rctx))
	if err != nil {
		RespondBadRequest(ctx, "Unknown field", gin.H{"field": field, "allowed": signup.Fields})
		return
	}
	h.observe("field", res)

	body := gin.H{"field": field, "valid": res.Valid()}

	if fe, failed := res.Get(field); failed {
		body["kind"] = fe.Kind
		body["message"] = h.messages(ctx).Message(fe.Kind)
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *RegistrationHandler) messages(ctx *gin.Context) signup.Messages {
	msgs, tag := h.catalog.Lookup(ctx.GetHeader("Accept-Language"))
	ctx.Set(middlewares.CtxLocale, tag.String())
	return msgs
}

func (h *RegistrationHandler) observe(mode string, res signup.Result) {
	if h.prom == nil {
		return
	}

	failures := make(map[string]string, len(res.Errors()))
	for _, fe := range res.Errors() {
		failures[fe.Field] = string(fe.Kind)
	}

	h.prom.ObserveValidation(mode, failures)
}
