package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/platform/auth"
	"github.com/cliniva/cliniva/internal/platform/upload"
	"github.com/cliniva/cliniva/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/patients", h.Create)
	authed.GET("/patients", h.List)
	authed.GET("/patients/search", h.Search)
	authed.GET("/patients/:id", h.Get)
	authed.PUT("/patients/:id", h.Update)
	authed.DELETE("/patients/:id", h.Delete)
}

const dateLayout = "2006-01-02"

// bindInput reads the multipart form the clinic frontend submits: scalar
// fields as form values, emergencyContact and medicalHistory as embedded
// JSON, and the photo as a file part.
func bindInput(c echo.Context) (Input, error) {
	var in Input
	in.Name = c.FormValue("name")
	in.Sex = c.FormValue("sex")
	in.Address = c.FormValue("address")
	in.Phone = c.FormValue("phone")

	if v := c.FormValue("dateOfBirth"); v != "" {
		dob, err := time.Parse(dateLayout, v)
		if err != nil {
			return in, errors.New("dateOfBirth must be YYYY-MM-DD")
		}
		in.DateOfBirth = dob
	}
	if v := c.FormValue("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("age must be a number")
		}
		in.Age = age
	}
	if v := c.FormValue("emergencyContact"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.EmergencyContact); err != nil {
			return in, errors.New("emergencyContact must be valid JSON")
		}
	}
	if v := c.FormValue("medicalHistory"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.MedicalHistory); err != nil {
			return in, errors.New("medicalHistory must be valid JSON")
		}
	}
	if file, err := c.FormFile("photo"); err == nil {
		in.Photo = file
	}
	return in, nil
}

func (h *Handler) Create(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.svc.Create(c.Request().Context(), auth.DoctorID(c), in)
	if errors.Is(err, upload.ErrInvalidFileType) || errors.Is(err, upload.ErrFileTooLarge) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Patient registered successfully",
		"patient": p,
	})
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(), auth.DoctorID(c), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": patients,
		"total":    total,
		"limit":    params.Limit,
		"offset":   params.Offset,
	})
}

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	patients, err := h.svc.Search(c.Request().Context(), auth.DoctorID(c), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	p, err := h.svc.Get(c.Request().Context(), id, auth.DoctorID(c))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patient": p})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	in, err := bindUpdate(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.svc.UpdatePatient(c.Request().Context(), id, auth.DoctorID(c), in)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if errors.Is(err, upload.ErrInvalidFileType) || errors.Is(err, upload.ErrFileTooLarge) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Patient updated successfully",
		"patient": p,
	})
}

func bindUpdate(c echo.Context) (Update, error) {
	var in Update
	in.Name = c.FormValue("name")
	in.Sex = c.FormValue("sex")
	in.Address = c.FormValue("address")
	in.Phone = c.FormValue("phone")

	if v := c.FormValue("dateOfBirth"); v != "" {
		dob, err := time.Parse(dateLayout, v)
		if err != nil {
			return in, errors.New("dateOfBirth must be YYYY-MM-DD")
		}
		in.DateOfBirth = dob
	}
	if v := c.FormValue("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("age must be a number")
		}
		in.Age = age
	}
	if v := c.FormValue("emergencyContact"); v != "" {
		var ec EmergencyContact
		if err := json.Unmarshal([]byte(v), &ec); err != nil {
			return in, errors.New("emergencyContact must be valid JSON")
		}
		in.EmergencyContact = &ec
	}
	if v := c.FormValue("medicalHistory"); v != "" {
		var mh MedicalHistory
		if err := json.Unmarshal([]byte(v), &mh); err != nil {
			return in, errors.New("medicalHistory must be valid JSON")
		}
		in.MedicalHistory = &mh
	}
	if file, err := c.FormFile("photo"); err == nil {
		in.Photo = file
	}
	return in, nil
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	deleted, err := h.svc.Delete(c.Request().Context(), id, auth.DoctorID(c))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":              "Patient and associated prescriptions deleted successfully",
		"deletedPrescriptions": deleted,
	})
}
