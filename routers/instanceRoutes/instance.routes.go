package instanceRoutes

import (
	controllers "courseledger/controllers/instance"

	"github.com/gofiber/fiber/v2"
)

// SetupInstanceRoutes mounts the diagnostics endpoints. withCatalog adds the
// discovery probes served only by the enrollment service.
func SetupInstanceRoutes(router fiber.Router, h *controllers.InstanceController, withCatalog bool) {
	testGroup := router.Group("/test")

	testGroup.Get("/instance", h.GetInstance)
	testGroup.Get("/health", h.Health)
	if withCatalog {
		testGroup.Get("/call-catalog", h.CallCatalog)
		testGroup.Get("/catalog-instances", h.CatalogInstances)
	}
}
