package models

import "time"

// Instructor is the catalog's reference to whoever teaches a course.
type Instructor struct {
	ID    string `json:"id" gorm:"size:64;index"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Course is owned by the catalog service. Enrolled is a cached counter that
// the enrollment service pushes after each enroll or drop.
type Course struct {
	ID          string     `json:"id" gorm:"primaryKey;size:64"`
	Code        string     `json:"code" gorm:"uniqueIndex;size:64;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Capacity    int        `json:"capacity" gorm:"not null"`
	Enrolled    int        `json:"enrolled" gorm:"not null;default:0"`
	Instructor  Instructor `json:"instructor" gorm:"embedded;embeddedPrefix:instructor_"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HasSeat reports whether the counter still leaves room for one more student.
func (c Course) HasSeat() bool {
	return c.Enrolled < c.Capacity
}
