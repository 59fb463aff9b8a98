package repositories

import (
	"context"
	"fmt"

	"courseledger/apperrors"
	"courseledger/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentFilter narrows List. An empty Major or nil Grade matches everything.
type StudentFilter struct {
	Major string
	Grade *int
}

// StudentRepository owns student records for the enrollment service.
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a StudentRepository.
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	q := r.db.WithContext(ctx).Model(&models.Student{})
	if filter.Major != "" {
		q = q.Where("major = ?", filter.Major)
	}
	if filter.Grade != nil {
		q = q.Where("grade = ?", *filter.Grade)
	}

	var students []models.Student
	if err := q.Order("student_id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Student", id)
	}
	return &student, nil
}

// FindByStudentID loads a student by student number.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "student_id = ?", studentID).Error; err != nil {
		return nil, notFound(err, "Student", studentID)
	}
	return &student, nil
}

// Create inserts a student after checking studentId and email uniqueness.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, "student_id", student.StudentID, "", "Student ID already exists: "); err != nil {
			return err
		}
		if err := ensureUnique(tx, "email", student.Email, "", "Email already exists: "); err != nil {
			return err
		}
		if student.ID == "" {
			student.ID = uuid.NewString()
		}
		return duplicate(tx.Create(student).Error, "Student already exists: "+student.StudentID)
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Update replaces the mutable profile fields. The student number is fixed.
func (r *StudentRepository) Update(ctx context.Context, id string, changes models.Student) (*models.Student, error) {
	var existing models.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return notFound(err, "Student", id)
		}
		if changes.Email != existing.Email {
			if err := ensureUnique(tx, "email", changes.Email, id, "Email already exists: "); err != nil {
				return err
			}
		}
		existing.Name = changes.Name
		existing.Email = changes.Email
		existing.Major = changes.Major
		existing.Grade = changes.Grade
		return duplicate(tx.Save(&existing).Error, "Email already exists: "+changes.Email)
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Student", id)
	}
	return nil
}

// ensureUnique fails when another student (other than exceptID) already
// uses value in column.
func ensureUnique(tx *gorm.DB, column, value, exceptID, message string) error {
	q := tx.Model(&models.Student{}).Where(column+" = ?", value)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check student %s: %w", column, err)
	}
	if count > 0 {
		return apperrors.Business(message + value)
	}
	return nil
}
