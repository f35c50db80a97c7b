package competitions

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"compsite/services"
	"compsite/utils/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CreateCompetition creates a competition from the admin form
// @Summary Create a competition
// @Description Upload the competition image and store the competition
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param start_at formData string true "Start (RFC 3339 or YYYY-MM-DDTHH:MM, UTC)"
// @Param end_at formData string true "End (RFC 3339 or YYYY-MM-DDTHH:MM, UTC)"
// @Param published formData string false "true to publish"
// @Param puzzle_question formData string false "Puzzle question"
// @Param puzzle_answer formData string false "Puzzle answer"
// @Param image_file formData file true "Competition image"
// @Success 201 {object} CreateCompetitionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/competitions [post]
func (h *Handler) CreateCompetition(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, ErrUploadTooLarge)
			return
		}
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	submission := services.CompetitionSubmission{
		Title:          formValue(form, FieldTitle),
		Description:    formValue(form, FieldDescription),
		StartAt:        formValue(form, FieldStartAt),
		EndAt:          formValue(form, FieldEndAt),
		Published:      parsePublished(formValue(form, FieldPublished)),
		PuzzleQuestion: formValue(form, FieldPuzzleQuestion),
		PuzzleAnswer:   formValue(form, FieldPuzzleAnswer),
	}

	if files := form.File[FieldImageFile]; len(files) > 0 {
		image, err := readUpload(files[0])
		if err != nil {
			response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
			return
		}
		submission.Image = image
	}

	result, err := h.Service.Create(c.Request.Context(), submission)
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedCreateCompetition)
		return
	}

	response.Message(c, http.StatusCreated, "Competition created successfully", gin.H{"slug": result.Slug})
}

// ListAllCompetitions returns every competition, drafts included
// @Summary List all competitions
// @Description Every competition, newest first, published or not
// @Tags Admin
// @Produce json
// @Success 200 {array} models.PublicCompetition
// @Failure 500 {object} map[string]string
// @Router /admin/competitions [get]
func (h *Handler) ListAllCompetitions(c *gin.Context) {
	competitions, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedFetchCompetitions)
		return
	}

	c.JSON(http.StatusOK, competitions)
}

// ExportCompetitions downloads every competition as an Excel workbook
// @Summary Export competitions
// @Description Every competition as an xlsx workbook
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} map[string]string
// @Router /admin/competitions/export [get]
func (h *Handler) ExportCompetitions(c *gin.Context) {
	competitions, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedExport)
		return
	}

	f, err := services.ExportCompetitions(competitions)
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedExport)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedExport)
		return
	}

	filename := fmt.Sprintf("competitions-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func formValue(form *multipart.Form, field string) string {
	if values := form.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// parsePublished treats "true" and "1" as published, anything else as a draft
func parsePublished(value string) bool {
	return value == "true" || value == "1"
}

func readUpload(header *multipart.FileHeader) (*services.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &services.ImageUpload{
		Data:        data,
		ContentType: contentType,
		Filename:    header.Filename,
	}, nil
}

func isTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
