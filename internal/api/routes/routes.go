// server/internal/api/routes/routes.go
package routes

import (
	"garment-dispatch-api-server/config"
	"garment-dispatch-api-server/internal/api/handlers"
	"garment-dispatch-api-server/internal/api/middleware"
	"garment-dispatch-api-server/internal/barcode"
	"garment-dispatch-api-server/internal/catalog"
	"garment-dispatch-api-server/internal/dispatch"
	"garment-dispatch-api-server/internal/s3"
	"garment-dispatch-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires the dependencies and declares the routes.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	variantCatalog := &catalog.Catalog{DB: db}
	orderStore := dispatch.NewStore(db)

	userHandler := &handlers.UserHandler{DB: db}
	metaHandler := &handlers.MetaHandler{Catalog: variantCatalog}
	barcodeHandler := &handlers.BarcodeHandler{Resolver: barcode.NewResolver(db)}
	dispatchHandler := &handlers.DispatchHandler{
		Catalog:    variantCatalog,
		Store:      orderStore,
		Hub:        wsHub,
		S3Uploader: s3Uploader,
	}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// WebSocket (token via query param, not header)
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === UNAUTHENTICATED ROUTES ===
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// === PROTECTED ROUTES ===

		// Administration, superadmin only
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("superadmin"))
		{
			admin.POST("/users", userHandler.CreateUser)
		}

		// Dispatch business routes
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		businessRoutes.Use(middleware.Authorize("admin", "operator", "superadmin"))
		{
			// Draft-building support: catalog snapshot and barcode scans
			dispatchMeta := businessRoutes.Group("/dispatch")
			{
				dispatchMeta.GET("/meta", metaHandler.GetDispatchMeta)
				dispatchMeta.GET("/barcode", barcodeHandler.ResolveBarcode)
			}

			// Dispatch orders
			orders := businessRoutes.Group("/dispatch-orders")
			{
				orders.POST("/", dispatchHandler.CreateOrder)
				orders.GET("/", dispatchHandler.ListOrders)
				orders.GET("/:id", dispatchHandler.GetOrder)

				// Two-phase cancel: request a token, then confirm it
				orders.POST("/:id/cancel-request", dispatchHandler.RequestCancel)
				orders.POST("/cancel-confirm", dispatchHandler.ConfirmCancel)

				// Receiving-side workflow
				orders.POST("/:id/receipt", dispatchHandler.RecordReceipt)
				orders.POST("/:id/receipt-photo", dispatchHandler.UploadReceiptPhoto)
			}
		}
	}

	return router
}
