package prescription

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/platform/auth"
	"github.com/cliniva/cliniva/pkg/pagination"
)

type Handler struct {
	svc     *Service
	doctors DoctorSource
}

func NewHandler(svc *Service, doctors DoctorSource) *Handler {
	return &Handler{svc: svc, doctors: doctors}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/prescriptions", h.Create)
	authed.GET("/prescriptions", h.List)
	authed.POST("/prescriptions/cleanup", h.Cleanup)
	authed.GET("/prescriptions/patient/:patientId", h.ListByPatient)
	authed.GET("/prescriptions/search/:query", h.Search)
	authed.GET("/prescriptions/:id", h.Get)
	authed.PUT("/prescriptions/:id", h.Update)
	authed.PATCH("/prescriptions/:id/status", h.UpdateStatus)
	authed.DELETE("/prescriptions/:id", h.Delete)
	authed.GET("/prescriptions/:id/pdf", h.PDF)
}

type createRequest struct {
	PatientID              string  `json:"patientId"`
	Symptoms               string  `json:"symptoms"`
	Prescription           string  `json:"prescription"`
	NextFollowUp           *string `json:"nextFollowUp"`
	Notes                  string  `json:"notes"`
	OriginalPrescriptionID *string `json:"originalPrescriptionId"`
}

func parseDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, errors.New("nextFollowUp must be YYYY-MM-DD")
	}
	return &t, nil
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	followUp, err := parseDate(req.NextFollowUp)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := Input{
		PatientID:    patientID,
		Symptoms:     req.Symptoms,
		Prescription: req.Prescription,
		NextFollowUp: followUp,
		Notes:        req.Notes,
	}
	if req.OriginalPrescriptionID != nil && *req.OriginalPrescriptionID != "" {
		originalID, err := primitive.ObjectIDFromHex(*req.OriginalPrescriptionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid original prescription id")
		}
		in.OriginalPrescriptionID = &originalID
	}

	p, err := h.svc.Create(c.Request().Context(), auth.DoctorID(c), in)
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Prescription created successfully",
		"prescription": p,
	})
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	prescriptions, total, err := h.svc.List(c.Request().Context(), auth.DoctorID(c), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"prescriptions": prescriptions,
		"total":         total,
		"limit":         params.Limit,
		"offset":        params.Offset,
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := primitive.ObjectIDFromHex(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	prescriptions, err := h.svc.ListByPatient(c.Request().Context(), patientID, auth.DoctorID(c))
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"prescriptions": prescriptions})
}

func (h *Handler) Search(c echo.Context) error {
	prescriptions, err := h.svc.Search(c.Request().Context(), auth.DoctorID(c), c.Param("query"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"prescriptions": prescriptions,
		"count":         len(prescriptions),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}

	p, err := h.svc.Get(c.Request().Context(), id, auth.DoctorID(c))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"prescription": p})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}

	var req struct {
		Symptoms     string  `json:"symptoms"`
		Prescription string  `json:"prescription"`
		NextFollowUp *string `json:"nextFollowUp"`
		Notes        string  `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	followUp, err := parseDate(req.NextFollowUp)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.svc.UpdatePrescription(c.Request().Context(), id, auth.DoctorID(c), Update{
		Symptoms:     req.Symptoms,
		Prescription: req.Prescription,
		NextFollowUp: followUp,
		Notes:        req.Notes,
	})
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Prescription updated successfully",
		"prescription": p,
	})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.svc.UpdateStatus(c.Request().Context(), id, auth.DoctorID(c), req.Status)
	if errors.Is(err, ErrInvalidStatus) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status value")
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Prescription status updated successfully",
		"prescription": p,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}

	err = h.svc.Delete(c.Request().Context(), id, auth.DoctorID(c))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Prescription deleted successfully"})
}

func (h *Handler) Cleanup(c echo.Context) error {
	deleted, err := h.svc.PurgeOrphans(c.Request().Context(), auth.DoctorID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Orphaned prescriptions cleaned up successfully",
		"deletedCount": deleted,
	})
}

func (h *Handler) PDF(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}

	ctx := c.Request().Context()
	doctorID := auth.DoctorID(c)

	p, err := h.svc.Get(ctx, id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	doc, err := h.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	signatureFile := ""
	if p.DigitalSignature != nil {
		signatureFile = *p.DigitalSignature
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, p, doc, signatureFile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s.pdf", p.PrescriptionID))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
