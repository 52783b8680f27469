package routes

import (
	"log/slog"
	"net/http"

	"chiludos-backend/config"
	"chiludos-backend/controllers"
	"chiludos-backend/middlewares"
	"chiludos-backend/models"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *slog.Logger
	Tokens *utils.TokenManager
	Events services.EventPublisher
}

func SetupRouter(d Dependencies) *gin.Engine {
	if d.Events == nil {
		d.Events = services.NopPublisher{}
	}
	resp := utils.NewErrorResponder(!d.Config.IsProduction(), d.Logger)

	r := gin.New()
	r.Use(resp.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(config.PerformanceLogger(d.Logger))

	r.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, http.StatusNotFound, "Route not found")
	})

	authService := services.NewAuthService(d.DB, d.Tokens, d.Logger)
	authController := controllers.NewAuthController(authService, resp)
	employeeController := controllers.NewEmployeeController(services.NewEmployeeService(d.DB, d.Logger), resp)
	productController := controllers.NewProductController(services.NewProductService(d.DB, d.Logger), resp)
	tableController := controllers.NewTableController(services.NewTableService(d.DB, d.Logger), resp)
	orderController := controllers.NewOrderController(services.NewOrderService(d.DB, d.Events, d.Logger), resp)
	reservationController := controllers.NewReservationController(services.NewReservationService(d.DB, d.Events, d.Logger), resp)
	reportController := controllers.NewReportController(services.NewReportService(d.DB), resp)
	healthController := controllers.NewHealthController(d.DB)

	authenticated := middlewares.AuthMiddleware(d.Tokens, resp)
	adminOnly := middlewares.RoleMiddleware(resp, models.RoleAdmin)
	staffOnly := middlewares.RoleMiddleware(resp, models.StaffRoles...)

	api := r.Group("/api")
	api.GET("/health", healthController.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(authenticated)
		auth.GET("/profile", authController.Profile)
		auth.PUT("/profile", authController.UpdateProfile)
		auth.PUT("/password", authController.ChangePassword)
	}

	employees := api.Group("/employees", authenticated, adminOnly)
	{
		employees.GET("", employeeController.GetEmployees)
		employees.POST("", employeeController.AddEmployee)
		employees.GET("/:id", employeeController.GetEmployee)
		employees.PUT("/:id", employeeController.UpdateEmployee)
		employees.DELETE("/:id", employeeController.DeleteEmployee)
		employees.PATCH("/:id/status", employeeController.SetEmployeeStatus)
	}

	products := api.Group("/products")
	{
		products.GET("", productController.GetProducts)
		products.GET("/category/:category", productController.GetProductsByCategory)
		products.GET("/:id", productController.GetProduct)

		products.POST("", authenticated, adminOnly, productController.CreateProduct)
		products.PUT("/:id", authenticated, adminOnly, productController.UpdateProduct)
		products.DELETE("/:id", authenticated, adminOnly, productController.DeleteProduct)
		products.PATCH("/:id/availability", authenticated, adminOnly, productController.SetAvailability)
	}

	tables := api.Group("/tables")
	{
		tables.GET("/available", tableController.GetAvailableTables)

		tables.GET("", authenticated, staffOnly, tableController.GetTables)
		tables.GET("/number/:number", authenticated, staffOnly, tableController.GetTableByNumber)
		tables.GET("/:id", authenticated, staffOnly, tableController.GetTable)
		tables.PATCH("/:id/status", authenticated, staffOnly, tableController.ChangeStatus)

		tables.POST("", authenticated, adminOnly, tableController.CreateTable)
		tables.PUT("/:id", authenticated, adminOnly, tableController.UpdateTable)
		tables.DELETE("/:id", authenticated, adminOnly, tableController.DeleteTable)
	}

	orders := api.Group("/orders", authenticated)
	{
		orders.POST("", orderController.CreateOrder)
		orders.GET("/mine", orderController.GetMyOrders)

		orders.GET("", staffOnly, orderController.GetOrders)
		orders.GET("/:id", staffOnly, orderController.GetOrder)
		orders.PATCH("/:id/status", staffOnly, orderController.UpdateOrderStatus)
	}

	reservations := api.Group("/reservations", authenticated)
	{
		reservations.POST("", reservationController.CreateReservation)
		reservations.GET("/mine", reservationController.GetMyReservations)
		reservations.PATCH("/:id/cancel", reservationController.CancelReservation)

		reservations.GET("", staffOnly, reservationController.GetReservations)
		reservations.GET("/:id", staffOnly, reservationController.GetReservation)
		reservations.PATCH("/:id/status", staffOnly, reservationController.UpdateReservationStatus)
		reservations.PATCH("/:id/complete", staffOnly, reservationController.CompleteReservation)
	}

	api.GET("/reports/sales", authenticated, adminOnly, reportController.GetSalesSummary)

	return r
}
