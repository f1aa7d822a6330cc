package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/config"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/pkg/flightapi"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/pkg/hotelapi"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/service"
)

const basePath = "/api/v1"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	packages *v1.PackageHandler
	bookings *v1.BookingHandler
	hotels   *v1.HotelHandler
	flights  *v1.FlightHandler
}

type repositories struct {
	users    *repository.UserRepository
	packages *repository.PackageRepository
	bookings *repository.BookingRepository
	hotels   *repository.HotelRepository
	flights  *repository.FlightRepository
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	return NewServerWithUpstreams(conf, db, flightapi.NewClient(conf.FlightAPI), hotelapi.NewClient(conf.HotelAPI))
}

// NewServerWithUpstreams lets tests swap the external search clients.
func NewServerWithUpstreams(conf *config.AppConfig, db *gorm.DB, flights service.FlightSearcher, hotels service.HotelSearcher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	repos := initRepositories(db)
	userSvc := service.NewUserService(repos.users)

	h := handlers{
		auth:     v1.NewAuthHandler(s.Config.API, service.NewAuthService(repos.users)),
		user:     v1.NewUserHandler(userSvc),
		packages: s.initPackageHandler(repos, userSvc),
		bookings: s.initBookingHandler(repos, userSvc),
		hotels:   s.initHotelHandler(repos, userSvc, hotels),
		flights:  s.initFlightHandler(repos, userSvc, flights),
	}
	s.MountHandlers(h)

	return s
}

func initRepositories(db *gorm.DB) repositories {
	return repositories{
		users:    repository.NewUserRepository(dao.NewUserDAO(db)),
		packages: repository.NewPackageRepository(dao.NewPackageDAO(db)),
		bookings: repository.NewBookingRepository(dao.NewBookingDAO(db)),
		hotels:   repository.NewHotelRepository(dao.NewHotelDAO(db)),
		flights:  repository.NewFlightRepository(dao.NewFlightDAO(db)),
	}
}

func (s *Server) initPackageHandler(repos repositories, uSvc *service.UserService) *v1.PackageHandler {
	svc := service.NewPackageService(repos.packages, repos.bookings, repos.hotels, repos.flights)
	handler := v1.NewPackageHandler(svc, uSvc)

	return handler
}

func (s *Server) initBookingHandler(repos repositories, uSvc *service.UserService) *v1.BookingHandler {
	svc := service.NewBookingService(repos.bookings, repos.packages, repos.users)
	handler := v1.NewBookingHandler(svc, uSvc)

	return handler
}

func (s *Server) initHotelHandler(repos repositories, uSvc *service.UserService, api service.HotelSearcher) *v1.HotelHandler {
	svc := service.NewHotelService(api, repos.hotels, repos.packages, s.Config.HotelAPI.CacheTTL)
	handler := v1.NewHotelHandler(svc, uSvc)

	return handler
}

func (s *Server) initFlightHandler(repos repositories, uSvc *service.UserService, api service.FlightSearcher) *v1.FlightHandler {
	svc := service.NewFlightService(api, repos.flights, repos.packages)
	handler := v1.NewFlightHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)
		public.POST("/auth/logout", h.auth.HandleLogout)

		public.GET("/packages", h.packages.HandleGetPackages)
		public.GET("/packages/:slug", h.packages.HandleGetPackage)
		public.GET("/packages/:slug/hotel-bookings", h.packages.HandleGetPackageHotelBookings)
		public.GET("/packages/:slug/flight-tickets", h.packages.HandleGetPackageFlightTickets)

		public.GET("/hotels", h.hotels.HandleSearchHotels)
		public.GET("/hotels/:hotelID", h.hotels.HandleGetHotel)
		public.GET("/hotels/:hotelID/rooms", h.hotels.HandleGetRooms)
		public.GET("/flights", h.flights.HandleSearchFlights)
	}

	private := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		private.GET("/users/me", h.user.HandleGetMe)
		private.PUT("/users/me", h.user.HandleUpdateProfile)
		private.GET("/users/:userID/roles", h.user.HandleGetRoles)
		private.PUT("/users/:userID/roles", h.user.HandleReplaceRoles)

		private.POST("/packages", h.packages.HandleCreatePackage)
		private.PUT("/packages/:slug", h.packages.HandleUpdatePackage)
		private.DELETE("/packages/:slug", h.packages.HandleDeletePackage)
		private.GET("/packages/:slug/bookings", h.packages.HandleGetPackageBookings)

		private.GET("/bookings/next-reference", h.bookings.HandleNextReference)
		private.GET("/bookings", h.bookings.HandleGetBookings)
		private.POST("/bookings", h.bookings.HandleCreateBooking)
		private.GET("/bookings/:ref", h.bookings.HandleGetBooking)
		private.PATCH("/bookings/:ref/status", h.bookings.HandleUpdateStatus)
		private.DELETE("/bookings/:ref", h.bookings.HandleDeleteBooking)
		private.GET("/bookings/:ref/travellers", h.bookings.HandleGetTravellers)
		private.GET("/customers/:customerID/bookings", h.bookings.HandleGetCustomerBookings)
		private.POST("/travellers", h.bookings.HandleAddTravellers)

		private.POST("/hotel-bookings", h.hotels.HandleCreateHotelBooking)
		private.DELETE("/hotel-bookings/:id", h.hotels.HandleDeleteHotelBooking)
		private.POST("/flight-tickets", h.flights.HandleCreateTicket)
		private.DELETE("/flight-tickets/:id", h.flights.HandleDeleteTicket)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
