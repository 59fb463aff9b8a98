package repositories

import (
	"context"
	"testing"

	"courseledger/apperrors"
	"courseledger/models"
	"courseledger/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func newCourse(code string, capacity int) *models.Course {
	return &models.Course{
		Code:       code,
		Title:      "Course " + code,
		Capacity:   capacity,
		Instructor: models.Instructor{ID: "T1", Name: "Ada"},
	}
}

func TestCourseCreateAssignsID(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenSQLite(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newCourse("CS101", 30))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Enrolled)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS101", got.Code)
	assert.Equal(t, "Ada", got.Instructor.Name)

	byCode, err := repo.FindByCode(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
}

func TestCourseCreateGuards(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenSQLite(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newCourse("CS101", 0))
	assert.True(t, apperrors.IsBusiness(err), "capacity must be positive")

	negative := newCourse("CS102", 10)
	negative.Enrolled = -1
	_, err = repo.Create(ctx, negative)
	assert.True(t, apperrors.IsBusiness(err), "enrolled must not be negative")

	_, err = repo.Create(ctx, newCourse("CS103", 10))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCourse("CS103", 10))
	assert.True(t, apperrors.IsBusiness(err), "code must be unique")
	assert.Contains(t, err.Error(), "CS103")
}

func TestCourseUpdate(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenSQLite(t))
	ctx := context.Background()

	course, err := repo.Create(ctx, newCourse("CS201", 2))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCourse("CS202", 2))
	require.NoError(t, err)

	t.Run("enrolled only keeps other fields", func(t *testing.T) {
		updated, err := repo.Update(ctx, course.ID, CoursePatch{Enrolled: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Enrolled)
		assert.Equal(t, "CS201", updated.Code)
		assert.Equal(t, 2, updated.Capacity)
		assert.Equal(t, course.CreatedAt.Unix(), updated.CreatedAt.Unix())
	})

	t.Run("capacity below enrolled is rejected", func(t *testing.T) {
		_, err := repo.Update(ctx, course.ID, CoursePatch{Capacity: intPtr(1)})
		assert.True(t, apperrors.IsBusiness(err))
	})

	t.Run("code collision is rejected", func(t *testing.T) {
		_, err := repo.Update(ctx, course.ID, CoursePatch{Code: strPtr("CS202")})
		assert.True(t, apperrors.IsBusiness(err))
	})

	t.Run("negative enrolled is rejected", func(t *testing.T) {
		_, err := repo.Update(ctx, course.ID, CoursePatch{Enrolled: intPtr(-1)})
		assert.True(t, apperrors.IsBusiness(err))
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := repo.Update(ctx, "nope", CoursePatch{Title: strPtr("x")})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCourseListFilters(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenSQLite(t))
	ctx := context.Background()

	algo := newCourse("CS301", 1)
	algo.Title = "Algorithms"
	_, err := repo.Create(ctx, algo)
	require.NoError(t, err)

	full := newCourse("CS302", 1)
	full.Title = "Operating Systems"
	full.Enrolled = 1
	full.Instructor.ID = "T2"
	_, err = repo.Create(ctx, full)
	require.NoError(t, err)

	byTitle, err := repo.List(ctx, CourseFilter{Title: "algo"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "CS301", byTitle[0].Code)

	byInstructor, err := repo.List(ctx, CourseFilter{InstructorID: "T2"})
	require.NoError(t, err)
	require.Len(t, byInstructor, 1)
	assert.Equal(t, "CS302", byInstructor[0].Code)

	available, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "CS301", available[0].Code)
}

func TestCourseDelete(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenSQLite(t))
	ctx := context.Background()

	course, err := repo.Create(ctx, newCourse("CS401", 5))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, course.ID))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, course.ID)))

	_, err = repo.FindByID(ctx, course.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
