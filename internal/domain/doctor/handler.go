package doctor

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/platform/auth"
	"github.com/cliniva/cliniva/internal/platform/upload"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints on the public group and the
// profile/template endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/danger-zone-auth", h.DangerZoneAuth)

	authed.GET("/auth/me", h.Me)
	authed.POST("/auth/change-password", h.ChangePassword)
	authed.PUT("/doctors/profile", h.UpdateProfile)
	authed.POST("/doctors/signature", h.UploadSignature)
	authed.GET("/doctors/templates", h.ListTemplates)
	authed.POST("/doctors/templates", h.AddTemplate)
	authed.PUT("/doctors/templates/:templateId", h.UpdateTemplate)
	authed.DELETE("/doctors/templates/:templateId", h.DeleteTemplate)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, token, err := h.svc.Register(c.Request().Context(), in)
	if errors.Is(err, ErrAlreadyExists) {
		return echo.NewHTTPError(http.StatusBadRequest, "Doctor already exists")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Doctor registered successfully",
		"token":   token,
		"doctor":  d.Profile(),
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, token, err := h.svc.Login(c.Request().Context(), in.Username, in.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"doctor":  d.Profile(),
	})
}

func (h *Handler) DangerZoneAuth(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.svc.VerifyCredentials(c.Request().Context(), in.Username, in.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Authentication successful",
	})
}

func (h *Handler) Me(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), auth.DoctorID(c))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctor": d.Profile()})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.svc.ChangePassword(c.Request().Context(), auth.DoctorID(c), in.CurrentPassword, in.NewPassword)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusBadRequest, "Current password is incorrect")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var in ProfileUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := h.svc.UpdateProfile(c.Request().Context(), auth.DoctorID(c), in)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"doctor":  d.Profile(),
	})
}

func (h *Handler) UploadSignature(c echo.Context) error {
	file, err := c.FormFile("signature")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No signature file uploaded")
	}

	path, err := h.svc.SaveSignature(c.Request().Context(), auth.DoctorID(c), file)
	if errors.Is(err, upload.ErrInvalidFileType) || errors.Is(err, upload.ErrFileTooLarge) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":       "Digital signature uploaded successfully",
		"signaturePath": path,
	})
}

func (h *Handler) ListTemplates(c echo.Context) error {
	templates, err := h.svc.Templates(c.Request().Context(), auth.DoctorID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"templates": templates})
}

func (h *Handler) AddTemplate(c echo.Context) error {
	var in TemplateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	templates, err := h.svc.AddTemplate(c.Request().Context(), auth.DoctorID(c), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Template added successfully",
		"templates": templates,
	})
}

func (h *Handler) UpdateTemplate(c echo.Context) error {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}
	var in TemplateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	templates, err := h.svc.UpdateTemplate(c.Request().Context(), auth.DoctorID(c), templateID, in)
	if errors.Is(err, ErrTemplateNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Template updated successfully",
		"templates": templates,
	})
}

func (h *Handler) DeleteTemplate(c echo.Context) error {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}

	templates, err := h.svc.DeleteTemplate(c.Request().Context(), auth.DoctorID(c), templateID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Template deleted successfully",
		"templates": templates,
	})
}
