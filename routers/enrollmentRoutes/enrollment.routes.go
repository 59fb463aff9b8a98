package enrollmentRoutes

import (
	controllers "courseledger/controllers/enrollment"
	validators "courseledger/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes mounts the enrollment ledger endpoints.
func SetupEnrollmentRoutes(router fiber.Router, h *controllers.EnrollmentController) {
	enrollmentGroup := router.Group("/enrollments")

	enrollmentGroup.Get("/", validators.EnrollmentList(), h.GetAllEnrollments)
	enrollmentGroup.Get("/course/:courseId", validators.PathParam("courseId"), h.GetCourseEnrollments)
	enrollmentGroup.Get("/student/:studentId", validators.PathParam("studentId"), h.GetStudentEnrollments)
	enrollmentGroup.Post("/", validators.Enroll(), h.Enroll)
	enrollmentGroup.Delete("/:id", validators.PathParam("id"), h.Drop)
}
