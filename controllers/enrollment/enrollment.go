package controllers

import (
	"context"

	"courseledger/middleware"
	"courseledger/models"
	"courseledger/repositories"
	enrollmentValidator "courseledger/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// Workflow is the enroll/drop coordinator as seen by the HTTP layer.
type Workflow interface {
	Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	Drop(ctx context.Context, enrollmentID string) error
}

// EnrollmentController serves the ledger's enrollment API.
type EnrollmentController struct {
	workflow    Workflow
	enrollments *repositories.EnrollmentRepository
}

func NewEnrollmentController(workflow Workflow, enrollments *repositories.EnrollmentRepository) *EnrollmentController {
	return &EnrollmentController{workflow: workflow, enrollments: enrollments}
}

func (h *EnrollmentController) GetAllEnrollments(c *fiber.Ctx) error {
	status, _ := c.Locals("enrollmentStatus").(models.EnrollmentStatus)
	enrollments, err := h.enrollments.List(c.UserContext(), status)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

func (h *EnrollmentController) GetCourseEnrollments(c *fiber.Ctx) error {
	enrollments, err := h.enrollments.ListByCourse(c.UserContext(), c.Locals("courseId").(string))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

func (h *EnrollmentController) GetStudentEnrollments(c *fiber.Ctx) error {
	enrollments, err := h.enrollments.ListByStudent(c.UserContext(), c.Locals("studentId").(string))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

func (h *EnrollmentController) Enroll(c *fiber.Ctx) error {
	req := c.Locals("validatedEnrollment").(*enrollmentValidator.EnrollRequest)
	enrollment, err := h.workflow.Enroll(c.UserContext(), req.CourseID, req.StudentID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

func (h *EnrollmentController) Drop(c *fiber.Ctx) error {
	if err := h.workflow.Drop(c.UserContext(), c.Locals("id").(string)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment dropped successfully!", nil)
}
