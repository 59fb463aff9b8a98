package app

import (
	"context"
	"fmt"

	"courseledger/config"
	courseControllers "courseledger/controllers/course"
	instanceControllers "courseledger/controllers/instance"
	"courseledger/database"
	"courseledger/discovery"
	"courseledger/models"
	"courseledger/repositories"
	"courseledger/routers/courseRoutes"
	"courseledger/routers/instanceRoutes"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog is the course catalog service.
type Catalog struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *gorm.DB
	redis     *redis.Client
	registrar *discovery.Registrar
	http      *fiber.App
}

// NewCatalogHTTP builds the catalog's routes over db.
func NewCatalogHTTP(db *gorm.DB, log *zap.Logger, info instanceControllers.InstanceInfo) *fiber.App {
	app := newServer(info.Service, log)
	api := app.Group("/api")

	courseRoutes.SetupCourseRoutes(api, courseControllers.NewCourseController(repositories.NewCourseRepository(db)))
	instanceRoutes.SetupInstanceRoutes(api, instanceControllers.NewInstanceController(info, nil, nil, ""), false)
	return app
}

// NewCatalog connects storage and, when REDIS_ADDR is set, prepares the
// instance's registry lease.
func NewCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Catalog, error) {
	db, err := database.Connect(cfg, log, &models.Course{})
	if err != nil {
		return nil, err
	}

	a := &Catalog{cfg: cfg, log: log, db: db}
	a.redis, err = connectRedis(ctx, cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	if a.redis != nil {
		a.registrar = discovery.NewRegistrar(a.redis, discovery.Instance{
			ID:      cfg.InstanceID,
			Service: cfg.ServiceName,
			URL:     cfg.AdvertiseURL,
		}, cfg.RegistrationTTL, log)
	}

	a.http = NewCatalogHTTP(db, log, instanceControllers.InstanceInfo{
		Service:    cfg.ServiceName,
		Port:       cfg.Port,
		InstanceID: cfg.InstanceID,
	})
	return a, nil
}

// Run serves until ctx is cancelled and then releases every resource.
func (a *Catalog) Run(ctx context.Context) error {
	defer a.close()

	regDone := make(chan struct{})
	if a.registrar != nil {
		regCtx, stopLease := context.WithCancel(ctx)
		defer func() {
			stopLease()
			<-regDone
		}()
		go func() {
			defer close(regDone)
			if err := a.registrar.Run(regCtx); err != nil {
				a.log.Error("service registration failed", zap.Error(err))
			}
		}()
	} else {
		close(regDone)
	}

	return serve(ctx, a.http, a.cfg.Port, a.log)
}

func (a *Catalog) close() {
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
