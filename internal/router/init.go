package router

import (
	app "github.com/oksasatya/realestate-api/internal/application"
	"github.com/oksasatya/realestate-api/internal/container"
	pginfra "github.com/oksasatya/realestate-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/realestate-api/internal/interface/http"
	"github.com/oksasatya/realestate-api/internal/router/modules"
)

// InitModules constructs every feature module from the container singletons
// and registers it. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	propertyRepo := pginfra.NewPropertyRepository(container.GetPGPool())

	userSvc := app.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
	)
	userHandler := handlers.NewUserHandler(
		userSvc,
		container.GetJWT(),
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
	)

	propertySvc := app.NewPropertyService(
		propertyRepo,
		userRepo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESPropertiesIndex,
		container.GetRabbitPub(),
		cfg.PropertyCacheTTL,
	)
	propertyHandler := handlers.NewPropertyHandler(propertySvc, container.GetLogger())

	uploadSvc := app.NewUploadService(
		cfg.UploadProvider,
		cfg.UploadFolder,
		cfg.UploadURLTTL,
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
	)
	uploadHandler := handlers.NewUploadHandler(uploadSvc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewPropertyModule(propertyHandler, container.GetJWT()))
	r.Add(modules.NewUploadModule(uploadHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
