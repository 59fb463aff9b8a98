package courseValidator

import (
	"strings"

	"courseledger/middleware"
	"courseledger/models"
	"courseledger/repositories"
	"courseledger/validators"

	"github.com/gofiber/fiber/v2"
)

// CourseRequest is the body accepted by POST /courses.
type CourseRequest struct {
	ID          string            `json:"id" validate:"max=64"`
	Code        string            `json:"code" validate:"required,max=64"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Capacity    int               `json:"capacity"`
	Enrolled    int               `json:"enrolled"`
	Instructor  models.Instructor `json:"instructor"`
}

// CourseUpdateRequest is the body accepted by PUT /courses/:id. Omitted
// fields are left unchanged, so {"enrolled": n} only moves the counter.
type CourseUpdateRequest struct {
	Code        *string            `json:"code" validate:"omitempty,min=1,max=64"`
	Title       *string            `json:"title" validate:"omitempty,min=1"`
	Description *string            `json:"description"`
	Capacity    *int               `json:"capacity"`
	Enrolled    *int               `json:"enrolled"`
	Instructor  *models.Instructor `json:"instructor"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Code = strings.TrimSpace(reqData.Code)
		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", &models.Course{
			ID:          reqData.ID,
			Code:        reqData.Code,
			Title:       reqData.Title,
			Description: reqData.Description,
			Capacity:    reqData.Capacity,
			Enrolled:    reqData.Enrolled,
			Instructor:  reqData.Instructor,
		})
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Code != nil {
			code := strings.TrimSpace(*reqData.Code)
			reqData.Code = &code
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("coursePatch", repositories.CoursePatch{
			Code:        reqData.Code,
			Title:       reqData.Title,
			Description: reqData.Description,
			Capacity:    reqData.Capacity,
			Enrolled:    reqData.Enrolled,
			Instructor:  reqData.Instructor,
		})
		return c.Next()
	}
}

// CourseID requires a non-blank :id parameter.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `query:"title"`
			InstructorID string `query:"instructorId"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("courseFilter", repositories.CourseFilter{
			Title:        strings.TrimSpace(reqData.Title),
			InstructorID: strings.TrimSpace(reqData.InstructorID),
		})
		return c.Next()
	}
}
