package controllers

import (
	"context"
	"os"
	"time"

	"courseledger/discovery"
	"courseledger/middleware"

	"github.com/gofiber/fiber/v2"
)

// InstanceInfo identifies the running process.
type InstanceInfo struct {
	Service    string
	Port       string
	InstanceID string
}

// CatalogProbe calls the catalog's own instance endpoint.
type CatalogProbe interface {
	Instance(ctx context.Context) (map[string]any, error)
}

// InstanceController answers diagnostics used to check discovery and load
// balancing. The probe and locator are nil on the catalog service.
type InstanceController struct {
	info    InstanceInfo
	probe   CatalogProbe
	locator discovery.Locator
	catalog string
}

func NewInstanceController(info InstanceInfo, probe CatalogProbe, locator discovery.Locator, catalogService string) *InstanceController {
	return &InstanceController{info: info, probe: probe, locator: locator, catalog: catalogService}
}

func (h *InstanceController) GetInstance(c *fiber.Ctx) error {
	hostname, _ := os.Hostname()
	return c.JSON(fiber.Map{
		"service":    h.info.Service,
		"port":       h.info.Port,
		"instanceId": h.info.InstanceID,
		"hostname":   hostname,
		"message":    "This is " + h.info.Service + " running on port " + h.info.Port,
		"timestamp":  time.Now().UnixMilli(),
	})
}

func (h *InstanceController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "UP",
		"service": h.info.Service,
		"port":    h.info.Port,
	})
}

func (h *InstanceController) CallCatalog(c *fiber.Ctx) error {
	if h.probe == nil {
		return fiber.ErrNotFound
	}
	resp, err := h.probe.Instance(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully called "+h.catalog+" via service discovery!", fiber.Map{
		"callerPort":      h.info.Port,
		"catalogResponse": resp,
	})
}

func (h *InstanceController) CatalogInstances(c *fiber.Ctx) error {
	if h.locator == nil {
		return fiber.ErrNotFound
	}
	instances, err := h.locator.Instances(c.UserContext(), h.catalog)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Catalog instances fetched successfully!", fiber.Map{
		"service":       h.catalog,
		"instanceCount": len(instances),
		"instances":     instances,
	})
}
