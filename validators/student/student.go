package studentValidator

import (
	"strconv"
	"strings"

	"courseledger/middleware"
	"courseledger/models"
	"courseledger/repositories"
	"courseledger/validators"

	"github.com/gofiber/fiber/v2"
)

// StudentRequest is the body accepted by POST /students.
type StudentRequest struct {
	StudentID string `json:"studentId" validate:"required,max=64"`
	Name      string `json:"name"`
	Email     string `json:"email" validate:"required,email"`
	Major     string `json:"major"`
	Grade     int    `json:"grade" validate:"gte=0"`
}

// StudentUpdateRequest is the body accepted by PUT /students/:id.
type StudentUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Major string `json:"major"`
	Grade int    `json:"grade" validate:"gte=0"`
}

func CreateStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StudentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.StudentID = strings.TrimSpace(reqData.StudentID)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStudent", &models.Student{
			StudentID: reqData.StudentID,
			Name:      strings.TrimSpace(reqData.Name),
			Email:     reqData.Email,
			Major:     strings.TrimSpace(reqData.Major),
			Grade:     reqData.Grade,
		})
		return c.Next()
	}
}

func UpdateStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StudentUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("studentChanges", models.Student{
			Name:  strings.TrimSpace(reqData.Name),
			Email: reqData.Email,
			Major: strings.TrimSpace(reqData.Major),
			Grade: reqData.Grade,
		})
		return c.Next()
	}
}

func StudentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repositories.StudentFilter{Major: strings.TrimSpace(c.Query("major"))}
		if raw := strings.TrimSpace(c.Query("grade")); raw != "" {
			grade, err := strconv.Atoi(raw)
			if err != nil || grade < 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"grade": "grade must be a non-negative number!",
				})
			}
			filter.Grade = &grade
		}

		c.Locals("studentFilter", filter)
		return c.Next()
	}
}

// ImportFile requires a multipart "file" upload.
func ImportFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Error retrieving uploaded file!", nil)
		}
		if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "file must be an .xlsx workbook!"})
		}
		c.Locals("importFile", file)
		return c.Next()
	}
}

// StudentRecordID requires a non-blank :id parameter.
func StudentRecordID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student ID is required!", nil)
		}
		c.Locals("id", id)
		return c.Next()
	}
}
