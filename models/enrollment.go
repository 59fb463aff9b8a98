package models

import "time"

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "ACTIVE"
	EnrollmentDropped EnrollmentStatus = "DROPPED"
)

// Valid reports whether s is a known status.
func (s EnrollmentStatus) Valid() bool {
	return s == EnrollmentActive || s == EnrollmentDropped
}

// Enrollment records a student's seat in a course. Dropped rows are kept;
// enrolling again creates a new row.
type Enrollment struct {
	ID         string           `json:"id" gorm:"primaryKey;size:64"`
	CourseID   string           `json:"courseId" gorm:"index:idx_enrollment_pair;size:64;not null"`
	StudentID  string           `json:"studentId" gorm:"index:idx_enrollment_pair;index;size:64;not null"`
	Status     EnrollmentStatus `json:"status" gorm:"size:16;index;not null"`
	EnrolledAt time.Time        `json:"enrolledAt"`
	DroppedAt  *time.Time       `json:"droppedAt,omitempty"`

	// ActiveKey is set only while ACTIVE; its unique index allows one active
	// row per course and student. NULLs do not collide on any driver.
	ActiveKey *string `json:"-" gorm:"uniqueIndex:idx_enrollment_active;size:129"`
}

// ActiveKeyFor is the ActiveKey of an ACTIVE enrollment for the pair.
func ActiveKeyFor(courseID, studentID string) string {
	return courseID + "/" + studentID
}

// IsActive reports whether the enrollment still holds a seat.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentActive
}
