package app

import (
	"context"
	"fmt"

	"courseledger/clients/catalog"
	"courseledger/config"
	enrollmentControllers "courseledger/controllers/enrollment"
	instanceControllers "courseledger/controllers/instance"
	studentControllers "courseledger/controllers/student"
	"courseledger/database"
	"courseledger/discovery"
	"courseledger/models"
	"courseledger/repositories"
	"courseledger/routers/enrollmentRoutes"
	"courseledger/routers/instanceRoutes"
	"courseledger/routers/studentRoutes"
	"courseledger/services/enrollment"
	"courseledger/utils"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollmentDeps are the collaborators the enrollment routes need besides
// the database.
type EnrollmentDeps struct {
	Workflow enrollmentControllers.Workflow
	Probe    instanceControllers.CatalogProbe
	Locator  discovery.Locator
	Info     instanceControllers.InstanceInfo
}

// Enrollment is the enrollment ledger service.
type Enrollment struct {
	cfg         *config.Config
	log         *zap.Logger
	db          *gorm.DB
	redis       *redis.Client
	coordinator *enrollment.Coordinator
	reconciler  *enrollment.Reconciler
	http        *fiber.App
}

// NewEnrollmentHTTP builds the enrollment service's routes over db.
func NewEnrollmentHTTP(db *gorm.DB, log *zap.Logger, deps EnrollmentDeps) *fiber.App {
	app := newServer(deps.Info.Service, log)
	api := app.Group("/api")

	enrollmentRoutes.SetupEnrollmentRoutes(api,
		enrollmentControllers.NewEnrollmentController(deps.Workflow, repositories.NewEnrollmentRepository(db)))
	studentRoutes.SetupStudentRoutes(api,
		studentControllers.NewStudentController(repositories.NewStudentRepository(db), log))
	instanceRoutes.SetupInstanceRoutes(api,
		instanceControllers.NewInstanceController(deps.Info, deps.Probe, deps.Locator, config.CatalogServiceName), true)
	return app
}

// NewEnrollment connects storage, picks the catalog locator (Redis registry
// when REDIS_ADDR is set, otherwise CATALOG_URLS) and builds the workflow.
func NewEnrollment(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Enrollment, error) {
	db, err := database.Connect(cfg, log, &models.Student{}, &models.Enrollment{})
	if err != nil {
		return nil, err
	}

	a := &Enrollment{cfg: cfg, log: log, db: db}
	a.redis, err = connectRedis(ctx, cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	var locator discovery.Locator
	if a.redis != nil {
		locator = discovery.NewRedisLocator(a.redis)
	} else {
		locator = discovery.NewStaticLocator(map[string][]string{config.CatalogServiceName: cfg.CatalogURLs})
	}
	client := catalog.NewClient(locator, cfg.CatalogTimeout)

	enrollments := repositories.NewEnrollmentRepository(db)
	a.coordinator = enrollment.NewCoordinator(repositories.NewStudentRepository(db), enrollments, client, log, cfg.CatalogTimeout)
	a.reconciler = enrollment.NewReconciler(enrollments, client, log)

	a.http = NewEnrollmentHTTP(db, log, EnrollmentDeps{
		Workflow: a.coordinator,
		Probe:    client,
		Locator:  locator,
		Info: instanceControllers.InstanceInfo{
			Service:    cfg.ServiceName,
			Port:       cfg.Port,
			InstanceID: cfg.InstanceID,
		},
	})
	return a, nil
}

// Run serves until ctx is cancelled. Pending count pushes are drained before
// the database closes.
func (a *Enrollment) Run(ctx context.Context) error {
	var scheduler *cron.Cron
	if a.cfg.ReconcileSchedule != "" {
		var err error
		scheduler, err = utils.StartReconcileScheduler(a.cfg.ReconcileSchedule, a.reconciler, a.cfg.CatalogTimeout*10, a.log)
		if err != nil {
			a.close()
			return err
		}
	}

	err := serve(ctx, a.http, a.cfg.Port, a.log)

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	a.coordinator.Wait()
	a.close()
	return err
}

func (a *Enrollment) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.log.Warn("close database", zap.Error(err))
	}
	a.log.Info(fmt.Sprintf("%s stopped", a.cfg.ServiceName))
}
