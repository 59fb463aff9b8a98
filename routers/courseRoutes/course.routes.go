package courseRoutes

import (
	controllers "courseledger/controllers/course"
	validators "courseledger/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes mounts the catalog's course endpoints.
func SetupCourseRoutes(router fiber.Router, h *controllers.CourseController) {
	courseGroup := router.Group("/courses")

	courseGroup.Get("/", validators.CourseList(), h.GetAllCourses)
	courseGroup.Get("/available", h.GetAvailableCourses)
	courseGroup.Get("/code/:code", h.GetCourseByCode)
	courseGroup.Get("/:id", validators.CourseID(), h.GetCourse)
	courseGroup.Post("/", validators.CreateCourse(), h.CreateCourse)
	courseGroup.Put("/:id", validators.CourseID(), validators.UpdateCourse(), h.UpdateCourse)
	courseGroup.Delete("/:id", validators.CourseID(), h.DeleteCourse)
}
