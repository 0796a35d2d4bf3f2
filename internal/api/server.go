package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/pilgrim-api/docs"
	v1 "github.com/vietanh2810/pilgrim-api/internal/api/handler/v1"
	"github.com/vietanh2810/pilgrim-api/internal/api/middleware"
	"github.com/vietanh2810/pilgrim-api/internal/config"
	"github.com/vietanh2810/pilgrim-api/internal/metrics"
	"github.com/vietanh2810/pilgrim-api/internal/repository"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

const basePath = "/api/v1"

// PhotoRoute is where the in-memory photo store is served from.
const PhotoRoute = "/photos"

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *metrics.Metrics

	cache  service.PilgrimCache
	photos service.PhotoStore
}

type handlers struct {
	auth       *v1.AuthHandler
	pilgrims   *v1.PilgrimHandler
	bulk       *v1.BulkHandler
	halls      *v1.HallHandler
	references *v1.ReferenceHandler
	packages   *v1.PackageHandler
	imports    *v1.ImportHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, cache service.PilgrimCache, photos service.PhotoStore) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: metrics.New(),
		cache:   cache,
		photos:  photos,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db))

	return s
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	adminRepo := repository.NewAdminRepository(dao.NewAdminDAO(db))
	pilgrimRepo := repository.NewPilgrimRepository(dao.NewPilgrimDAO(db))
	hallRepo := repository.NewHallRepository(dao.NewHallDAO(db))
	referenceRepo := repository.NewReferenceRepository(dao.NewReferenceDAO(db))
	packageRepo := repository.NewPackageRepository(dao.NewPackageDAO(db))
	importRepo := repository.NewImportRepository(dao.NewImportDAO(db))
	assignmentRepo := repository.NewAssignmentRepository(dao.NewAssignmentDAO(db))

	referenceSvc := service.NewReferenceService(referenceRepo, packageRepo, hallRepo, importRepo)

	return handlers{
		auth:       v1.NewAuthHandler(service.NewAuthService(adminRepo, s.Config.API)),
		pilgrims:   v1.NewPilgrimHandler(service.NewPilgrimService(pilgrimRepo, s.cache, s.photos), referenceSvc),
		bulk:       v1.NewBulkHandler(service.NewAssignmentService(assignmentRepo, s.cache, s.Metrics)),
		halls:      v1.NewHallHandler(service.NewHallService(hallRepo, referenceRepo, s.cache)),
		references: v1.NewReferenceHandler(referenceSvc),
		packages:   v1.NewPackageHandler(service.NewPackageService(packageRepo)),
		imports:    v1.NewImportHandler(service.NewImportService(importRepo, s.cache)),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	if s.Config.Metrics.Enabled {
		s.Router.Use(middleware.Metrics(s.Metrics))
	}
}

func (s *Server) MountHandlers(h handlers) {
	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", h.auth.HandleLogin)
		auth.POST("/auth/refresh", h.auth.HandleRefresh)
	}

	api := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		api.GET("/auth/me", h.auth.HandleMe)

		api.GET("/pilgrims/pilgrims", h.pilgrims.HandleListPilgrims)
		api.POST("/pilgrims/pilgrims", h.pilgrims.HandleCreatePilgrim)
		api.GET("/pilgrims/:id", h.pilgrims.HandleGetPilgrim)
		api.PUT("/pilgrims/:id", h.pilgrims.HandleUpdatePilgrim)
		api.DELETE("/pilgrims/:id", h.pilgrims.HandleDeletePilgrim)
		api.GET("/pilgrims/:id/photo", h.pilgrims.HandlePhotoURL)

		api.POST("/pilgrims/bulk/housing/auto-assign", h.bulk.HandleAssignHousing)
		api.POST("/pilgrims/bulk/transport/manual-distribute", h.bulk.HandleAssignTransport)
		api.POST("/pilgrims/bulk/supervisors", h.bulk.HandleAssignSupervisors)
		api.POST("/pilgrims/bulk/tags", h.bulk.HandleAssignTags)
		api.POST("/pilgrims/bulk/departure-status", h.bulk.HandleSetDepartureStatus)

		api.POST("/pilgrims/import", h.imports.HandleImport)
		api.GET("/pilgrims/import/template", h.imports.HandleImportTemplate)
		api.GET("/pilgrims/import/history", h.imports.HandleListImports)
		api.GET("/pilgrims/import/history/:id", h.imports.HandleGetImport)

		api.GET("/accommodation/halls", h.halls.HandleListHalls)
		api.POST("/accommodation/halls", h.halls.HandleCreateHall)
		api.GET("/accommodation/halls/:hallID", h.halls.HandleGetHall)
		api.DELETE("/accommodation/halls/:hallID", h.halls.HandleDeleteHall)
		api.GET("/accommodation/halls/:hallID/beds", h.halls.HandleSearchBeds)
		api.PUT("/accommodation/halls/:hallID/beds/:number", h.halls.HandleSetBedStatus)
		api.DELETE("/accommodation/halls/:hallID/beds/:number", h.halls.HandleReleaseBed)

		api.GET("/lookups/:kind", h.references.HandleListLookups)
		api.POST("/lookups/:kind", h.references.HandleCreateLookup)
		api.GET("/buses", h.references.HandleListBuses)
		api.POST("/buses", h.references.HandleCreateBus)
		api.GET("/employees", h.references.HandleListEmployees)
		api.POST("/employees", h.references.HandleCreateEmployee)

		api.GET("/dashboard/settings/packages", h.packages.HandleListPackages)
		api.POST("/dashboard/settings/packages", h.packages.HandleCreatePackage)
		api.PUT("/dashboard/settings/packages/:id", h.packages.HandleUpdatePackage)
		api.DELETE("/dashboard/settings/packages/:id", h.packages.HandleDeletePackage)
	}

	if opener, ok := s.photos.(v1.PhotoOpener); ok {
		s.Router.GET(PhotoRoute+"/*key", v1.NewPhotoHandler(opener).HandleGetPhoto)
	}

	if s.Config.Metrics.Enabled {
		s.Router.GET(s.Config.Metrics.Path, gin.WrapH(s.Metrics.Handler()))
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Pilgrim administration API"
	docs.SwaggerInfo.Description = "Pilgrim records, accommodation, transport and bulk assignment for the admin dashboard."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
