package competitions

import (
	"errors"
	"net/http"

	"compsite/realtime"
	"compsite/services"
	"compsite/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error messages
const (
	ErrCompetitionNotFound     = "Competition not found or not published"
	ErrNoPuzzle                = "This competition does not have a puzzle"
	ErrSlugTaken               = "A competition with this slug already exists"
	ErrFailedFetchCompetitions = "Failed to fetch competitions"
	ErrFailedCreateCompetition = "Failed to create competition"
	ErrFailedVerifyAnswer      = "Failed to verify answer"
	ErrFailedExport            = "Failed to export competitions"
	ErrInvalidRequest          = "Invalid request data"
	ErrAnswerRequired          = "Answer is required"
	ErrUploadTooLarge          = "Upload exceeds the maximum allowed size"
)

// Multipart field names of the admin creation form
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldStartAt        = "start_at"
	FieldEndAt          = "end_at"
	FieldPublished      = "published"
	FieldPuzzleQuestion = "puzzle_question"
	FieldPuzzleAnswer   = "puzzle_answer"
	FieldImageFile      = "image_file"
)

// Handler serves the competition endpoints
type Handler struct {
	Service        *services.CompetitionService
	Hub            *realtime.Hub
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// AnswerRequest is the body of an answer submission
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerResponse tells whether the submitted answer is correct
type AnswerResponse struct {
	IsCorrect bool `json:"isCorrect"`
}

// CreateCompetitionResponse is returned after a successful creation
type CreateCompetitionResponse struct {
	Message string `json:"message"`
	Slug    string `json:"slug"`
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.L()
	}
	return h.Logger
}

// respondWithServiceError maps a service error to its HTTP status
func (h *Handler) respondWithServiceError(c *gin.Context, err error, fallback string) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		response.ValidationError(c, validation.Fields)
	case errors.Is(err, services.ErrNotFound):
		response.Error(c, http.StatusNotFound, ErrCompetitionNotFound)
	case errors.Is(err, services.ErrNoPuzzle):
		response.Error(c, http.StatusBadRequest, ErrNoPuzzle)
	case errors.Is(err, services.ErrSlugTaken):
		response.Error(c, http.StatusConflict, ErrSlugTaken)
	default:
		_ = c.Error(err)
		h.logger().Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}
