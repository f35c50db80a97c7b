package competitions

import (
	"net/http"

	"compsite/utils/response"

	"github.com/gin-gonic/gin"
)

// ListCompetitions returns the published competitions
// @Summary List published competitions
// @Description Published competitions ordered by end date, soonest first
// @Tags Competitions
// @Produce json
// @Success 200 {array} models.PublicCompetition
// @Failure 500 {object} map[string]string
// @Router /competitions [get]
func (h *Handler) ListCompetitions(c *gin.Context) {
	competitions, err := h.Service.ListPublished(c.Request.Context())
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedFetchCompetitions)
		return
	}

	c.JSON(http.StatusOK, competitions)
}

// GetCompetition returns one published competition
// @Summary Get a competition
// @Description Get a published competition by its slug
// @Tags Competitions
// @Produce json
// @Param slug path string true "Competition slug"
// @Success 200 {object} models.PublicCompetition
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /competitions/{slug} [get]
func (h *Handler) GetCompetition(c *gin.Context) {
	competition, err := h.Service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedFetchCompetitions)
		return
	}

	c.JSON(http.StatusOK, competition)
}

// AnswerPuzzle checks an answer to a competition's puzzle
// @Summary Answer a competition puzzle
// @Description Compare the submitted answer with the stored digest
// @Tags Competitions
// @Accept json
// @Produce json
// @Param slug path string true "Competition slug"
// @Param answer body AnswerRequest true "Answer"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /competitions/{slug}/answer [post]
func (h *Handler) AnswerPuzzle(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrAnswerRequired)
		return
	}

	isCorrect, err := h.Service.VerifyAnswer(c.Request.Context(), c.Param("slug"), req.Answer)
	if err != nil {
		h.respondWithServiceError(c, err, ErrFailedVerifyAnswer)
		return
	}

	c.JSON(http.StatusOK, AnswerResponse{IsCorrect: isCorrect})
}
