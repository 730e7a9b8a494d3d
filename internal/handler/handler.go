package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/domain/patient"
	"github.com/patientor/patientor/internal/export"
	"github.com/patientor/patientor/internal/form"
	"github.com/patientor/patientor/internal/platform/apiclient"
	"github.com/patientor/patientor/internal/render"
	"github.com/patientor/patientor/internal/session"
	"github.com/patientor/patientor/pkg/pagination"
)

type Handler struct {
	svc    *session.Service
	logger zerolog.Logger
}

func NewHandler(svc *session.Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.CreatePatient)
	api.POST("/patients/:id/entries", h.AddEntry)

	api.POST("/entries/validate", h.ValidateEntry)
	api.GET("/entry-types", h.ListEntryTypes)
	api.GET("/diagnoses", h.ListDiagnoses)

	api.GET("/export/patients.xlsx", h.ExportPatients)
}

// ValidationResponse is the body of a 422 and of the live validation
// endpoint.
type ValidationResponse struct {
	Valid  bool                   `json:"valid"`
	Errors entry.Errors           `json:"errors"`
	Nested map[string]interface{} `json:"nested"`
	Fields []form.Field           `json:"fields"`
}

func newValidationResponse(t entry.Type, errs entry.Errors) ValidationResponse {
	if errs == nil {
		errs = entry.Errors{}
	}
	return ValidationResponse{
		Valid:  errs.Valid(),
		Errors: errs,
		Nested: errs.Nested(),
		Fields: form.FieldsFor(t),
	}
}

// EntryResponse is returned after an entry has been stored.
type EntryResponse struct {
	Entry entry.Entry      `json:"entry"`
	View  render.EntryView `json:"view"`
}

type EntryTypeResponse struct {
	form.Choice
	Fields []form.Field `json:"fields"`
}

// -- patients --

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	list := h.svc.Store().State().PatientList()
	return c.JSON(http.StatusOK, pagination.Paginate(list, pg))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.OpenPatient(c.Request().Context(), id)
	if err != nil {
		return openError(err)
	}
	return c.JSON(http.StatusOK, render.Patient(p, h.svc.Store().State().Diagnoses))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var np patient.NewPatient
	if err := c.Bind(&np); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := np.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.AddPatient(c.Request().Context(), np)
	if err != nil {
		h.logger.Warn().Err(err).Msg("create patient rejected")
		return upstreamError(err)
	}
	h.logger.Info().Str("patient_id", created.ID).Msg("patient created")
	return c.JSON(http.StatusCreated, created)
}

// -- entries --

// AddEntry validates the posted draft with the same form the web client
// uses and, when it is acceptable, submits it for the patient.
func (h *Handler) AddEntry(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var d entry.Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.svc.OpenPatient(ctx, id); err != nil {
		return openError(err)
	}

	f := form.NewEntryForm()
	f.Load(d)
	if !f.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, newValidationResponse(f.Type(), f.Errors()))
	}

	created, err := h.svc.SubmitEntry(ctx, id, f)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrPatientNotLoaded):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, form.ErrNotSubmittable):
		return c.JSON(http.StatusUnprocessableEntity, newValidationResponse(f.Type(), f.Errors()))
	default:
		return upstreamError(err)
	}

	view := render.EntryView{Variant: render.Entry(created)}
	if codes := created.Info().DiagnosisCodes; len(codes) > 0 {
		view.Diagnoses = diagnosis.Resolve(codes, h.svc.Store().State().Diagnoses)
	}
	return c.JSON(http.StatusCreated, EntryResponse{Entry: created, View: view})
}

// ValidateEntry runs validation over a draft without submitting it, for
// clients that show errors as the user types.
func (h *Handler) ValidateEntry(c echo.Context) error {
	var d entry.Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f := form.NewEntryForm()
	f.Load(d)
	return c.JSON(http.StatusOK, newValidationResponse(f.Type(), f.Errors()))
}

func (h *Handler) ListEntryTypes(c echo.Context) error {
	opts := form.TypeOptions()
	out := make([]EntryTypeResponse, len(opts))
	for i, o := range opts {
		out[i] = EntryTypeResponse{Choice: o, Fields: form.FieldsFor(entry.Type(o.Value))}
	}
	return c.JSON(http.StatusOK, out)
}

// -- diagnoses --

func (h *Handler) ListDiagnoses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Store().State().DiagnosisList())
}

// -- export --

// ExportPatients downloads the current cache as a workbook.
func (h *Handler) ExportPatients(c echo.Context) error {
	data, err := export.Workbook(h.svc.Store().State())
	if err != nil {
		h.logger.Error().Err(err).Msg("export failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="patients.xlsx"`)
	return c.Blob(http.StatusOK, export.ContentType, data)
}

// openError reports a failed patient fetch: unknown ids are a 404, anything
// else goes through upstreamError.
func openError(err error) *echo.HTTPError {
	if errors.Is(err, apiclient.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return upstreamError(err)
}

// upstreamError maps a patient API failure to the status the caller sees.
// Client errors keep the API's message; anything else is a bad gateway.
func upstreamError(err error) *echo.HTTPError {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Reason()
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		switch {
		case apiErr.Status == http.StatusNotFound:
			return echo.NewHTTPError(http.StatusNotFound, msg)
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return echo.NewHTTPError(http.StatusBadRequest, msg)
		}
	}
	return echo.NewHTTPError(http.StatusBadGateway, "patient API unavailable")
}
