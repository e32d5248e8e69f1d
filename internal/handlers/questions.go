package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varsityhub/backend/internal/models"
	"github.com/varsityhub/backend/internal/services"
)

type QuestionHandler struct {
	qa *services.QAService
}

func NewQuestionHandler(qa *services.QAService) *QuestionHandler {
	return &QuestionHandler{qa: qa}
}

// GetQuestions lists questions, optionally filtered by course and search text
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	viewerID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter := services.QuestionFilter{
		CourseID: c.Query("course_id"),
		Search:   c.Query("search"),
	}

	questions, err := h.qa.ListQuestions(c.Request.Context(), viewerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns one question and bumps its view counter
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	viewerID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	question, err := h.qa.GetQuestion(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// CreateQuestion posts a new question
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.qa.CreateQuestion(c.Request.Context(), authorID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// DeleteQuestion removes a question (author or moderator only)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.qa.DeleteQuestion(c.Request.Context(), requesterID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// GetAnswers lists a question's answers, accepted answer first
func (h *QuestionHandler) GetAnswers(c *gin.Context) {
	viewerID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	answers, err := h.qa.ListAnswers(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	c.JSON(http.StatusOK, answers)
}

// CreateAnswer posts an answer on a question
func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.qa.CreateAnswer(c.Request.Context(), authorID, c.Param("id"), input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

// AcceptAnswer marks an answer accepted (question author only)
func (h *QuestionHandler) AcceptAnswer(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.qa.AcceptAnswer(c.Request.Context(), requesterID, c.Param("answerId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer accepted"})
}

// DeleteAnswer removes an answer (author or moderator only)
func (h *QuestionHandler) DeleteAnswer(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.qa.DeleteAnswer(c.Request.Context(), requesterID, c.Param("answerId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// Vote applies the three-state vote toggle to a question or an answer
func (h *QuestionHandler) Vote(c *gin.Context) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		VoteType int `json:"vote_type" binding:"required,oneof=-1 1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type must be -1 or 1"})
		return
	}

	var target services.VoteTarget
	switch c.Param("type") {
	case "question":
		target = services.QuestionTarget(c.Param("id"))
	case "answer":
		target = services.AnswerTarget(c.Param("id"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote target must be question or answer"})
		return
	}

	if err := h.qa.CastVote(c.Request.Context(), voterID, target, input.VoteType); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
