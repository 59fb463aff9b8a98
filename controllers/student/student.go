package controllers

import (
	"mime/multipart"

	"courseledger/middleware"
	"courseledger/models"
	"courseledger/repositories"
	"courseledger/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StudentController serves the ledger's student API.
type StudentController struct {
	students *repositories.StudentRepository
	log      *zap.Logger
}

func NewStudentController(students *repositories.StudentRepository, log *zap.Logger) *StudentController {
	return &StudentController{students: students, log: log}
}

func (h *StudentController) GetAllStudents(c *fiber.Ctx) error {
	filter, _ := c.Locals("studentFilter").(repositories.StudentFilter)
	students, err := h.students.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", students)
}

func (h *StudentController) GetStudent(c *fiber.Ctx) error {
	student, err := h.students.FindByID(c.UserContext(), c.Locals("id").(string))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student fetched successfully!", student)
}

func (h *StudentController) CreateStudent(c *fiber.Ctx) error {
	student, err := h.students.Create(c.UserContext(), c.Locals("validatedStudent").(*models.Student))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Student created successfully!", student)
}

func (h *StudentController) UpdateStudent(c *fiber.Ctx) error {
	changes := c.Locals("studentChanges").(models.Student)
	student, err := h.students.Update(c.UserContext(), c.Locals("id").(string), changes)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student updated successfully!", student)
}

func (h *StudentController) DeleteStudent(c *fiber.Ctx) error {
	if err := h.students.Delete(c.UserContext(), c.Locals("id").(string)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student deleted successfully!", nil)
}

func (h *StudentController) ImportStudents(c *fiber.Ctx) error {
	header := c.Locals("importFile").(*multipart.FileHeader)
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	h.log.Info("student import received", zap.String("file", header.Filename), zap.Int64("size", header.Size))
	result, err := utils.ImportStudentsFromExcel(c.UserContext(), file, h.students, h.log)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Import successful", result)
}
