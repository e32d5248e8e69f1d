package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
)

// CourseService manages institutions, courses and enrollments.
type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

func (s *CourseService) ListInstitutions(ctx context.Context) ([]models.Institution, error) {
	var institutions []models.Institution
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&institutions).Error; err != nil {
		return nil, storeErr("list institutions", err)
	}
	return institutions, nil
}

func (s *CourseService) ListCourses(ctx context.Context, institutionID string) ([]models.Course, error) {
	query := s.db.WithContext(ctx).Preload("Institution").Order("name ASC")
	if institutionID != "" {
		query = query.Where("institution_id = ?", institutionID)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, storeErr("list courses", err)
	}
	return courses, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" || req.InstitutionID == "" {
		return nil, validationf("code, name and institution_id are required")
	}

	db := s.db.WithContext(ctx)

	if err := db.First(&models.Institution{}, "id = ?", req.InstitutionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("institution %s does not exist", req.InstitutionID)
		}
		return nil, storeErr("lookup institution", err)
	}

	course := models.Course{
		Code:          code,
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		InstitutionID: req.InstitutionID,
	}
	if err := db.Create(&course).Error; err != nil {
		return nil, storeErr("create course", err)
	}
	if err := db.Preload("Institution").First(&course, "id = ?", course.ID).Error; err != nil {
		return nil, storeErr("reload course", err)
	}
	return &course, nil
}

// Enroll adds the user to a course. Enrolling twice is a no-op.
func (s *CourseService) Enroll(ctx context.Context, userID, courseID string) error {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Course{}, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup course", err)
	}

	var existing models.Enrollment
	switch err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return storeErr("lookup enrollment", err)
	}

	if err := db.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error; err != nil {
		return storeErr("create enrollment", err)
	}
	return nil
}

func (s *CourseService) Unenroll(ctx context.Context, userID, courseID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return storeErr("delete enrollment", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CourseService) ListUserCourses(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Course").Preload("Course.Institution").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, storeErr("list enrollments", err)
	}
	return enrollments, nil
}
