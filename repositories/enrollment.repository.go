package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courseledger/apperrors"
	"courseledger/models"

	"gorm.io/gorm"
)

var (
	// ErrNotActive is returned when dropping an enrollment that no longer holds a seat.
	ErrNotActive = apperrors.Business("enrollment not active")
	// ErrActiveExists is returned by Create when the pair already has an ACTIVE row.
	ErrActiveExists = apperrors.Business("already enrolled")
)

// EnrollmentRepository owns enrollment records for the enrollment service.
type EnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates an EnrollmentRepository.
func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns all enrollments, optionally restricted to one status.
func (r *EnrollmentRepository) List(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	q := r.db.WithContext(ctx).Model(&models.Enrollment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.find(q, "list enrollments")
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	return r.find(r.db.WithContext(ctx).Where("course_id = ?", courseID), "list enrollments by course")
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return r.find(r.db.WithContext(ctx).Where("student_id = ?", studentID), "list enrollments by student")
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Enrollment", id)
	}
	return &enrollment, nil
}

// ExistsActive reports whether the student currently holds a seat in the course.
func (r *EnrollmentRepository) ExistsActive(ctx context.Context, courseID, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ? AND status = ?", courseID, studentID, models.EnrollmentActive).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check active enrollment: %w", err)
	}
	return count > 0, nil
}

// Create inserts enrollment. An ACTIVE row claims the pair's active key, so a
// concurrent second ACTIVE insert for the same pair fails with ErrActiveExists.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.IsActive() {
		key := models.ActiveKeyFor(enrollment.CourseID, enrollment.StudentID)
		enrollment.ActiveKey = &key
	} else {
		enrollment.ActiveKey = nil
	}

	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrActiveExists
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// MarkDropped moves an ACTIVE enrollment to DROPPED and releases its active
// key. The status guard is part of the UPDATE so two concurrent drops cannot
// both succeed.
func (r *EnrollmentRepository) MarkDropped(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", id, models.EnrollmentActive).
		Updates(map[string]any{"status": models.EnrollmentDropped, "dropped_at": at, "active_key": nil})
	if res.Error != nil {
		return fmt.Errorf("drop enrollment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotActive
	}
	return nil
}

// ActiveCounts returns the number of ACTIVE enrollments for every course that
// has ever had an enrollment, including courses now at zero.
func (r *EnrollmentRepository) ActiveCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		CourseID string
		Active   int
	}
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("course_id, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS active", models.EnrollmentActive).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count active enrollments: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CourseID] = row.Active
	}
	return counts, nil
}

func (r *EnrollmentRepository) find(q *gorm.DB, op string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := q.Order("enrolled_at").Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return enrollments, nil
}
