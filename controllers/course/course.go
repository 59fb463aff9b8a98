package controllers

import (
	"courseledger/middleware"
	"courseledger/models"
	"courseledger/repositories"

	"github.com/gofiber/fiber/v2"
)

// CourseController serves the catalog's course API.
type CourseController struct {
	courses *repositories.CourseRepository
}

func NewCourseController(courses *repositories.CourseRepository) *CourseController {
	return &CourseController{courses: courses}
}

func (h *CourseController) GetAllCourses(c *fiber.Ctx) error {
	filter, _ := c.Locals("courseFilter").(repositories.CourseFilter)
	courses, err := h.courses.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (h *CourseController) GetAvailableCourses(c *fiber.Ctx) error {
	courses, err := h.courses.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Available courses fetched successfully!", courses)
}

func (h *CourseController) GetCourse(c *fiber.Ctx) error {
	course, err := h.courses.FindByID(c.UserContext(), c.Locals("courseID").(string))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (h *CourseController) GetCourseByCode(c *fiber.Ctx) error {
	course, err := h.courses.FindByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (h *CourseController) CreateCourse(c *fiber.Ctx) error {
	course, err := h.courses.Create(c.UserContext(), c.Locals("validatedCourse").(*models.Course))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (h *CourseController) UpdateCourse(c *fiber.Ctx) error {
	patch := c.Locals("coursePatch").(repositories.CoursePatch)
	course, err := h.courses.Update(c.UserContext(), c.Locals("courseID").(string), patch)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func (h *CourseController) DeleteCourse(c *fiber.Ctx) error {
	if err := h.courses.Delete(c.UserContext(), c.Locals("courseID").(string)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
