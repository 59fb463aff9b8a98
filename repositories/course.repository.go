package repositories

import (
	"context"
	"fmt"
	"strings"

	"courseledger/apperrors"
	"courseledger/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseFilter narrows List. Empty fields match everything.
type CourseFilter struct {
	Title        string
	InstructorID string
}

// CoursePatch carries a partial course update. Nil fields keep their value.
type CoursePatch struct {
	Code        *string
	Title       *string
	Description *string
	Capacity    *int
	Enrolled    *int
	Instructor  *models.Instructor
}

// CourseRepository owns course records for the catalog service.
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a CourseRepository.
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses ordered by code.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	q := r.db.WithContext(ctx).Model(&models.Course{})
	if title := strings.TrimSpace(filter.Title); title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filter.InstructorID != "" {
		q = q.Where("instructor_id = ?", filter.InstructorID)
	}

	var courses []models.Course
	if err := q.Order("code").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListAvailable returns courses whose counter still leaves a seat.
func (r *CourseRepository) ListAvailable(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("enrolled < capacity").Order("code").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	return courses, nil
}

// FindByID loads a course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Course", id)
	}
	return &course, nil
}

// FindByCode loads a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "code = ?", code).Error; err != nil {
		return nil, notFound(err, "Course", code)
	}
	return &course, nil
}

// Create validates and inserts a course, assigning an id when absent.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	if course.Capacity <= 0 {
		return nil, apperrors.Business("Course capacity must be greater than 0")
	}
	if course.Enrolled < 0 {
		return nil, apperrors.Business("Enrolled count cannot be negative")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCodeFree(tx, course.Code); err != nil {
			return err
		}
		if course.ID == "" {
			course.ID = uuid.NewString()
		}
		return duplicate(tx.Create(course).Error, "Course code already exists: "+course.Code)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Update applies patch to the course with the given id. The id and createdAt
// never change; capacity may not drop below the current enrolled count.
func (r *CourseRepository) Update(ctx context.Context, id string, patch CoursePatch) (*models.Course, error) {
	var updated models.Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Course
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return notFound(err, "Course", id)
		}
		updated = existing

		if patch.Code != nil && *patch.Code != existing.Code {
			if err := ensureCodeFree(tx, *patch.Code); err != nil {
				return err
			}
			updated.Code = *patch.Code
		}
		if patch.Title != nil {
			updated.Title = *patch.Title
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.Instructor != nil {
			updated.Instructor = *patch.Instructor
		}
		if patch.Capacity != nil {
			if *patch.Capacity <= 0 {
				return apperrors.Business("Course capacity must be greater than 0")
			}
			if *patch.Capacity < existing.Enrolled {
				return apperrors.Businessf("Capacity cannot be less than enrolled count (current enrolled: %d)", existing.Enrolled)
			}
			updated.Capacity = *patch.Capacity
		}
		if patch.Enrolled != nil {
			if *patch.Enrolled < 0 {
				return apperrors.Business("Enrolled count cannot be negative")
			}
			updated.Enrolled = *patch.Enrolled
		}

		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		return duplicate(tx.Save(&updated).Error, "Course code already exists: "+updated.Code)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Course", id)
	}
	return nil
}

func ensureCodeFree(tx *gorm.DB, code string) error {
	if code == "" {
		return apperrors.Business("Course code is required")
	}
	var count int64
	if err := tx.Model(&models.Course{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return fmt.Errorf("check course code: %w", err)
	}
	if count > 0 {
		return apperrors.Business("Course code already exists: " + code)
	}
	return nil
}
