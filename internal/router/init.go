package router

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/config"
	"github.com/Widedbounou/SK-B/internal/application"
	"github.com/Widedbounou/SK-B/internal/container"
	esinfra "github.com/Widedbounou/SK-B/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/Widedbounou/SK-B/internal/infrastructure/gcs"
	mongoinfra "github.com/Widedbounou/SK-B/internal/infrastructure/mongo"
	redisinfra "github.com/Widedbounou/SK-B/internal/infrastructure/redis"
	handlers "github.com/Widedbounou/SK-B/internal/interface/http"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
	"github.com/Widedbounou/SK-B/internal/router/modules"
	"github.com/Widedbounou/SK-B/pkg/taxonomy"
)

type serviceDeps struct {
	Users    *application.UserService
	Offers   *application.OfferService
	Taxonomy *taxonomy.Taxonomy
}

// buildServices wires repositories, caches and the search index from the container.
// Optional backends (redis, elasticsearch, rabbitmq) are left unset when absent.
func buildServices(ctx context.Context) (serviceDeps, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()

	users, err := mongoinfra.NewUserRepository(ctx, db)
	if err != nil {
		return serviceDeps{}, fmt.Errorf("user repository: %w", err)
	}
	offers, err := mongoinfra.NewOfferRepository(ctx, db)
	if err != nil {
		return serviceDeps{}, fmt.Errorf("offer repository: %w", err)
	}
	media := gcsinfra.NewMediaStore(container.GetGCS(), cfg.GCSBucket)

	userSvc := application.NewUserService(users, media, container.GetJWT(), cfg, logger)
	offerSvc := application.NewOfferService(offers, users, media, container.GetTaxonomy(), cfg.MediaRoot, logger)

	if rdb := container.GetRedis(); rdb != nil {
		userSvc.Sessions = redisinfra.NewSessionCache(rdb)
		offerSvc.Cache = redisinfra.NewOfferCache(rdb, cfg.OfferCacheTTL)
	}
	if es := container.GetES(); es != nil {
		offerSvc.Index = esinfra.NewOfferIndex(es, cfg.ESOffersIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		userSvc.Emails = pub
	}
	return serviceDeps{Users: userSvc, Offers: offerSvc, Taxonomy: container.GetTaxonomy()}, nil
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(ctx context.Context, r *Registry) error {
	deps, err := buildServices(ctx)
	if err != nil {
		return err
	}
	registerModules(r, deps, container.GetConfig(), container.GetLogger())
	return nil
}

func registerModules(r *Registry, deps serviceDeps, cfg *config.Config, logger *logrus.Logger) {
	auth := middleware.Auth(deps.Users.JWT, deps.Users, logger)

	r.Add(modules.NewTaxonomyModule(handlers.NewTaxonomyHandler(deps.Taxonomy)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(deps.Users, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.MaxUploadBytes()), auth))
	r.Add(modules.NewVerificationModule(handlers.NewVerificationHandler(deps.Users, logger), auth))
	r.Add(modules.NewOfferModule(handlers.NewOfferHandler(deps.Offers, logger, cfg.MaxUploadBytes()), auth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
