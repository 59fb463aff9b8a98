package studentRoutes

import (
	controllers "courseledger/controllers/student"
	validators "courseledger/validators/student"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(router fiber.Router, h *controllers.StudentController) {
	studentGroup := router.Group("/students")

	studentGroup.Get("/", validators.StudentList(), h.GetAllStudents)
	studentGroup.Post("/", validators.CreateStudent(), h.CreateStudent)
	studentGroup.Post("/import", validators.ImportFile(), h.ImportStudents)
	studentGroup.Get("/:id", validators.StudentRecordID(), h.GetStudent)
	studentGroup.Put("/:id", validators.StudentRecordID(), validators.UpdateStudent(), h.UpdateStudent)
	studentGroup.Delete("/:id", validators.StudentRecordID(), h.DeleteStudent)
}
