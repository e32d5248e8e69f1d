package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varsityhub/backend/internal/models"
)

func TestCreateCourse(t *testing.T) {
	svc := NewCourseService(testDB)
	ctx := context.Background()
	inst := createInstitution(t, "Cape Tech")

	_, err := svc.CreateCourse(ctx, models.CreateCourseRequest{Name: "n", InstitutionID: inst.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateCourse(ctx, models.CreateCourseRequest{Code: "c", InstitutionID: inst.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateCourse(ctx, models.CreateCourseRequest{Code: "c", Name: "n"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateCourse(ctx, models.CreateCourseRequest{Code: "c", Name: "n", InstitutionID: "5f4c1b1e-0000-0000-0000-000000000030"})
	assert.ErrorIs(t, err, ErrValidation)

	course, err := svc.CreateCourse(ctx, models.CreateCourseRequest{
		Code:          "  CSC1015F  ",
		Name:          "Intro to Programming",
		Description:   "First year CS",
		InstitutionID: inst.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "CSC1015F", course.Code)
	assert.Equal(t, inst.Name, course.Institution.Name)
}

func TestListCoursesByInstitution(t *testing.T) {
	svc := NewCourseService(testDB)
	ctx := context.Background()
	inst := createInstitution(t, "Jozi Poly")

	_, err := svc.CreateCourse(ctx, models.CreateCourseRequest{Code: "ACC100", Name: "Accounting I", InstitutionID: inst.ID})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, models.CreateCourseRequest{Code: "ACC200", Name: "Accounting II", InstitutionID: inst.ID})
	require.NoError(t, err)

	courses, err := svc.ListCourses(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	// alphabetical by name
	assert.Equal(t, "Accounting I", courses[0].Name)
	for _, c := range courses {
		assert.Equal(t, inst.ID, c.InstitutionID)
		assert.Equal(t, inst.Name, c.Institution.Name)
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	svc := NewCourseService(testDB)
	ctx := context.Background()
	user := createUser(t, "EnrollUser")
	course := createCourse(t, "ENR100")

	require.NoError(t, svc.Enroll(ctx, user.ID, course.ID))
	require.NoError(t, svc.Enroll(ctx, user.ID, course.ID))

	var count int64
	testDB.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, svc.Enroll(ctx, user.ID, "5f4c1b1e-0000-0000-0000-000000000031"), ErrNotFound)
}

func TestUnenroll(t *testing.T) {
	svc := NewCourseService(testDB)
	ctx := context.Background()
	user := createUser(t, "UnenrollUser")
	course := createCourse(t, "ENR200")

	assert.ErrorIs(t, svc.Unenroll(ctx, user.ID, course.ID), ErrNotFound)
	require.NoError(t, svc.Enroll(ctx, user.ID, course.ID))
	require.NoError(t, svc.Unenroll(ctx, user.ID, course.ID))
	assert.ErrorIs(t, svc.Unenroll(ctx, user.ID, course.ID), ErrNotFound)
}

func TestListUserCourses(t *testing.T) {
	svc := NewCourseService(testDB)
	ctx := context.Background()
	user := createUser(t, "MyCoursesUser")
	first := createCourse(t, "MC100")
	second := createCourse(t, "MC200")

	require.NoError(t, svc.Enroll(ctx, user.ID, first.ID))
	require.NoError(t, svc.Enroll(ctx, user.ID, second.ID))

	enrollments, err := svc.ListUserCourses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	for _, e := range enrollments {
		assert.Equal(t, user.ID, e.UserID)
		assert.NotEmpty(t, e.Course.Code)
		assert.NotEmpty(t, e.Course.Institution.Name)
	}
}
