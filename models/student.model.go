package models

import "time"

// Student is owned by the enrollment service. StudentID is the student
// number callers enroll with; ID is the surrogate key.
type Student struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	StudentID string    `json:"studentId" gorm:"uniqueIndex;size:64;not null"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Major     string    `json:"major" gorm:"index"`
	Grade     int       `json:"grade" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
