// Package enrollment coordinates enroll and drop between the local enrollment
// ledger and the remote catalog.
//
// The catalog read, the capacity/duplicate checks, the local write and the
// count push are not atomic and no lock spans them. Two concurrent enrolls
// for the last seat can both pass the capacity check. The one-ACTIVE-row-per-pair
// rule is enforced by the store's unique active key, not by the pre-check alone.
// The enrollment row is the record of intent; the catalog's enrolled counter is
// a best-effort cache.
package enrollment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"courseledger/apperrors"
	"courseledger/clients/catalog"
	"courseledger/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCourseFull      = apperrors.Business("course full")
	ErrAlreadyEnrolled = apperrors.Business("already enrolled")
	ErrNotActive       = apperrors.Business("enrollment not active")
	ErrMissingIDs      = apperrors.Business("courseId and studentId are required")
)

// StudentStore looks students up by student number.
type StudentStore interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

// EnrollmentStore persists enrollments.
type EnrollmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	ExistsActive(ctx context.Context, courseID, studentID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	MarkDropped(ctx context.Context, id string, at time.Time) error
}

// CatalogAPI is the catalog service contract the workflow consumes.
type CatalogAPI interface {
	GetCourse(ctx context.Context, id string) (*catalog.CourseSnapshot, error)
	UpdateEnrolledCount(ctx context.Context, id string, count int) error
}

// Coordinator runs the enroll and drop workflows.
type Coordinator struct {
	students    StudentStore
	enrollments EnrollmentStore
	catalog     CatalogAPI
	log         *zap.Logger
	now         func() time.Time
	newID       func() string
	pushTimeout time.Duration

	pushes sync.WaitGroup
}

// NewCoordinator creates a Coordinator. pushTimeout bounds each background
// count push.
func NewCoordinator(students StudentStore, enrollments EnrollmentStore, catalog CatalogAPI, log *zap.Logger, pushTimeout time.Duration) *Coordinator {
	return &Coordinator{
		students:    students,
		enrollments: enrollments,
		catalog:     catalog,
		log:         log.Named("coordinator"),
		now:         time.Now,
		newID:       uuid.NewString,
		pushTimeout: pushTimeout,
	}
}

// Enroll gives studentID a seat in courseID.
func (c *Coordinator) Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	courseID = strings.TrimSpace(courseID)
	studentID = strings.TrimSpace(studentID)
	if courseID == "" || studentID == "" {
		return nil, ErrMissingIDs
	}
	log := c.log.With(zap.String("courseId", courseID), zap.String("studentId", studentID))
	log.Info("enroll started")

	if _, err := c.students.FindByStudentID(ctx, studentID); err != nil {
		return nil, err
	}

	// The only blocking remote call; failing here leaves no local state.
	course, err := c.catalog.GetCourse(ctx, courseID)
	if err != nil {
		if apperrors.IsUnavailable(err) {
			log.Error("catalog read failed", zap.Error(err))
		}
		return nil, err
	}

	if course.Enrolled >= course.Capacity {
		return nil, ErrCourseFull
	}

	active, err := c.enrollments.ExistsActive(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		ID:         c.newID(),
		CourseID:   courseID,
		StudentID:  studentID,
		Status:     models.EnrollmentActive,
		EnrolledAt: c.now(),
	}
	if err := c.enrollments.Create(ctx, enrollment); err != nil {
		var be *apperrors.BusinessError
		if errors.As(err, &be) {
			// Lost a race with a concurrent enroll for the same pair.
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	next := course.Enrolled + 1
	c.push(ctx, courseID, func(pctx context.Context) error {
		return c.catalog.UpdateEnrolledCount(pctx, courseID, next)
	})

	log.Info("enroll committed", zap.String("enrollmentId", enrollment.ID))
	return enrollment, nil
}

// Drop releases the seat held by enrollmentID. The local transition is kept
// even when the catalog cannot be updated.
func (c *Coordinator) Drop(ctx context.Context, enrollmentID string) error {
	log := c.log.With(zap.String("enrollmentId", enrollmentID))
	log.Info("drop started")

	enrollment, err := c.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !enrollment.IsActive() {
		return ErrNotActive
	}

	if err := c.enrollments.MarkDropped(ctx, enrollmentID, c.now()); err != nil {
		var be *apperrors.BusinessError
		if errors.As(err, &be) {
			// Lost a race with another drop.
			return ErrNotActive
		}
		return err
	}

	courseID := enrollment.CourseID
	c.push(ctx, courseID, func(pctx context.Context) error {
		course, err := c.catalog.GetCourse(pctx, courseID)
		if err != nil {
			return err
		}
		return c.catalog.UpdateEnrolledCount(pctx, courseID, max(0, course.Enrolled-1))
	})

	log.Info("drop committed", zap.String("courseId", courseID))
	return nil
}

// Wait blocks until every background count push has finished.
func (c *Coordinator) Wait() {
	c.pushes.Wait()
}

// push runs fn on its own goroutine with a context detached from the request,
// so the caller's response never waits on or is changed by the catalog.
func (c *Coordinator) push(ctx context.Context, courseID string, fn func(context.Context) error) {
	pctx := context.WithoutCancel(ctx)
	c.pushes.Add(1)
	go func() {
		defer c.pushes.Done()
		pctx, cancel := context.WithTimeout(pctx, c.pushTimeout)
		defer cancel()

		if err := fn(pctx); err != nil {
			c.log.Warn("catalog count push failed", zap.String("courseId", courseID), zap.Error(err))
			return
		}
		c.log.Debug("catalog count pushed", zap.String("courseId", courseID))
	}()
}
