package enrollmentValidator

import (
	"strings"

	"courseledger/middleware"
	"courseledger/models"
	"courseledger/validators"

	"github.com/gofiber/fiber/v2"
)

// EnrollRequest is the body accepted by POST /enrollments.
type EnrollRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.CourseID = strings.TrimSpace(reqData.CourseID)
		reqData.StudentID = strings.TrimSpace(reqData.StudentID)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

// EnrollmentList accepts an optional ?status=ACTIVE|DROPPED filter.
func EnrollmentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := models.EnrollmentStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
		if status != "" && !status.Valid() {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "status must be one of: ACTIVE DROPPED!",
			})
		}
		c.Locals("enrollmentStatus", status)
		return c.Next()
	}
}

// PathParam requires a non-blank path parameter and stores it under the same
// name in Locals.
func PathParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := strings.TrimSpace(c.Params(name))
		if value == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, name+" is required!", nil)
		}
		c.Locals(name, value)
		return c.Next()
	}
}
