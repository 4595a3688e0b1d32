package records

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/middleware"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/pkg/response"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/records")
	{
		records.GET("", h.List)
		records.POST("", h.Create)
		records.GET("/:id", h.GetByID)
		records.DELETE("/:id", h.Delete)
	}
}

type createForm struct {
	DefectType       string `form:"defectType" validate:"required,defecttype"`
	Severity         int    `form:"severity" validate:"required,min=1,max=5"`
	Note             string `form:"note"`
	Lat              string `form:"lat"`
	Lng              string `form:"lng"`
	LocationAccuracy string `form:"locationAccuracy"`
	RecordedAt       string `form:"recordedAt"`
}

// Create godoc
// @Summary Create a record with photos
// @Description Multipart create: defectType, severity, optional note/lat/lng/locationAccuracy/recordedAt plus 1-10 "photos" parts.
// @Tags Records
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} domain.Record
// @Failure 400 {object} map[string]interface{}
// @Router /records [post]
func (h *Handler) Create(c *gin.Context) {
	var form createForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form data")
		return
	}

	details := validator.Validate(form)
	if details == nil {
		details = map[string]string{}
	}

	input := CreateRecordInput{
		DefectType: domain.DefectType(form.DefectType),
		Severity:   form.Severity,
	}
	if form.Note != "" {
		input.Note = &form.Note
	}
	input.Lat = parseOptionalFloat(form.Lat, "lat", details)
	input.Lng = parseOptionalFloat(form.Lng, "lng", details)
	input.LocationAccuracy = parseOptionalFloat(form.LocationAccuracy, "locationAccuracy", details)
	if form.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, form.RecordedAt)
		if err != nil {
			details["recordedAt"] = "recordedAt must be an ISO-8601 timestamp"
		} else {
			input.RecordedAt = &t
		}
	}

	if len(details) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid record fields", details)
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse multipart form")
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), middleware.OwnerID(c), input, mf.File["photos"])
	if err != nil {
		switch err {
		case ErrNoPhotos:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one photo is required")
		case ErrTooManyPhotos:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Too many photos")
		case ErrPhotoTooLarge:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Photo exceeds maximum allowed size")
		case ErrUnsupportedPhotoType:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported file type")
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid record fields")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to create record")
		}
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// List godoc
// @Summary List records
// @Description Paginated, filtered listing scoped to the calling device.
// @Tags Records
// @Produce json
// @Param defectType query []string false "Repeatable: ?defectType=A&defectType=B"
// @Param minSeverity query int false "1..5"
// @Param maxSeverity query int false "1..5"
// @Param hasLocation query bool false "true/false"
// @Param days query int false "7, 14 or 30 (default 30)"
// @Param sortBy query string false "createdAt or severity"
// @Param order query string false "asc or desc"
// @Param limit query int false "1..100 (default 20)"
// @Param offset query int false ">= 0"
// @Success 200 {object} ListRecordsResponse
// @Failure 400 {object} map[string]interface{}
// @Router /records [get]
func (h *Handler) List(c *gin.Context) {
	q, fieldErrors := ParseListQuery(c)
	if fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", fieldErrors)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to list records")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary Get one record with all photos
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} domain.Record
// @Failure 404 {object} map[string]interface{}
// @Router /records/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	rec, err := h.svc.GetByID(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load record")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete a record and its photos
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} DeleteRecordResponse
// @Failure 404 {object} map[string]interface{}
// @Router /records/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	ack, err := h.svc.Delete(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to delete record")
		return
	}

	c.JSON(http.StatusOK, ack)
}

func recordID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return "", false
	}
	return id, true
}

func parseOptionalFloat(raw, field string, details map[string]string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		details[field] = field + " must be a number"
		return nil
	}
	return &v
}
