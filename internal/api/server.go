package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/evently/evently-api/docs"
	v1 "github.com/evently/evently-api/internal/api/handler/v1"
	"github.com/evently/evently-api/internal/api/middleware"
	"github.com/evently/evently-api/internal/config"
	"github.com/evently/evently-api/internal/pkg/passkit"
	"github.com/evently/evently-api/internal/repository"
	"github.com/evently/evently-api/internal/repository/dao"
	"github.com/evently/evently-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	participationHandler := s.initParticipationHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, participationHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	participationRepo := repository.NewParticipationRepository(dao.NewParticipationDAO(db))
	svc := service.NewEventService(eventRepo, participationRepo)
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) initParticipationHandler(db *gorm.DB) *v1.ParticipationHandler {
	participationRepo := repository.NewParticipationRepository(dao.NewParticipationDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewParticipationService(participationRepo, eventRepo, userRepo)

	renderer := passkit.NewGenerator(s.Config.API.BaseURL)
	ticketSvc := service.NewTicketService([]byte(s.Config.API.PasskitSigningKey), renderer)

	handler := v1.NewParticipationHandler(svc, ticketSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, eventHandler *v1.EventHandler, participationHandler *v1.ParticipationHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Pass redemption carries its own credential: the signed token.
	passes := s.Router.Group(basePath)
	{
		passes.GET("/participations/apple-passkit/:token", participationHandler.HandleGetApplePasskit)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.PUT("/users/password", userHandler.HandleUpdatePassword)
		users.PUT("/users/email", userHandler.HandleUpdateEmail)
		users.PUT("/users/preferences", userHandler.HandleUpdatePreferences)
		users.DELETE("/users", userHandler.HandleDeleteAccount)
	}

	events := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		events.POST("/events", eventHandler.HandleCreateEvent)
		events.GET("/events", eventHandler.HandleGetEvents)
		events.GET("/events/mine", eventHandler.HandleGetUserEvents)
		events.GET("/events/search", eventHandler.HandleSearchEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
		events.PUT("/events/:eventID", eventHandler.HandleEditEvent)
		events.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
	}

	participations := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		participations.POST("/participations", participationHandler.HandleJoinEvent)
		participations.POST("/participations/request", participationHandler.HandleRequestParticipation)
		participations.POST("/participations/accept", participationHandler.HandleAcceptParticipation)
		participations.POST("/participations/reject", participationHandler.HandleRejectParticipation)
		participations.POST("/participations/cancel", participationHandler.HandleCancelParticipation)
		participations.GET("/participations", participationHandler.HandleGetUserParticipations)
		participations.GET("/participations/event/:eventID", participationHandler.HandleGetEventParticipations)
		participations.GET("/participations/:eventID", participationHandler.HandleGetParticipation)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Evently API"
	docs.SwaggerInfo.Description = "Event participation and wallet-pass API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
