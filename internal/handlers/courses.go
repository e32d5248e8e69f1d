package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varsityhub/backend/internal/models"
	"github.com/varsityhub/backend/internal/services"
)

type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// GetInstitutions lists every institution alphabetically
func (h *CourseHandler) GetInstitutions(c *gin.Context) {
	institutions, err := h.courses.ListInstitutions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, institutions)
}

// GetCourses lists courses, optionally for one institution
func (h *CourseHandler) GetCourses(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context(), c.Query("institution_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

// CreateCourse adds a course to an institution
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	if _, ok := extractUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.CreateCourse(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// Enroll adds the caller to a course
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.courses.Enroll(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrolled"})
}

// Unenroll removes the caller from a course
func (h *CourseHandler) Unenroll(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.courses.Unenroll(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unenrolled"})
}

// GetMyCourses lists the caller's enrollments
func (h *CourseHandler) GetMyCourses(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	enrollments, err := h.courses.ListUserCourses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	c.JSON(http.StatusOK, enrollments)
}
