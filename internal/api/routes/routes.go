// internal/api/routes/routes.go
package routes

import (
	"time"

	"notaria-api-server/config"
	"notaria-api-server/internal/api/handlers"
	"notaria-api-server/internal/api/middleware"
	"notaria-api-server/internal/lifecycle"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/ratelimit"
	"notaria-api-server/internal/s3"
	"notaria-api-server/internal/signer"
	"notaria-api-server/internal/socket"
	"notaria-api-server/internal/store"
	"notaria-api-server/internal/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter recibe las dependencias ya construidas y arma las rutas.
func SetupRouter(
	manager *lifecycle.Manager,
	publicValidator *validator.Service,
	signatures store.SignatureStore,
	token signer.Capability,
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	loginLimiter := ratelimit.NewLimiter(cfg.RateLimit.LoginPerMinute, time.Minute)
	documentLimiter := ratelimit.NewLimiter(cfg.RateLimit.DocumentPerMinute, time.Minute)

	documentHandler := &handlers.DocumentHandler{Manager: manager, Signatures: signatures, Hub: wsHub}
	evidenceHandler := &handlers.EvidenceHandler{Manager: manager, S3Uploader: s3Uploader}
	signatureHandler := &handlers.SignatureHandler{Manager: manager, Token: token, Hub: wsHub}
	validationHandler := &handlers.ValidationHandler{Validator: publicValidator}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	adminHandler := &handlers.AdminHandler{DB: db}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// WebSocket para notificaciones de estado.
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === RUTAS SIN AUTENTICACIÓN ===

		auth := apiV1.Group("/auth")
		auth.Use(middleware.RateLimit(loginLimiter))
		{
			auth.POST("/login", userHandler.Login)
		}

		// Validación pública por QR o número de documento.
		public := apiV1.Group("/")
		{
			public.GET("/validate/:code", validationHandler.Validate)
		}

		// === RUTAS PROTEGIDAS ===

		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize(models.RoleAdmin))
		{
			admin.POST("/users", userHandler.CreateUser)

			documentTypes := admin.Group("/document-types")
			{
				documentTypes.POST("/", adminHandler.CreateDocumentType)
				documentTypes.GET("/", adminHandler.GetAllDocumentTypes)
				documentTypes.PUT("/:id", adminHandler.UpdateDocumentType)
			}

			terminals := admin.Group("/terminals")
			{
				terminals.POST("/", adminHandler.CreateTerminal)
				terminals.GET("/", adminHandler.GetAllTerminals)
				terminals.PUT("/:id", adminHandler.UpdateTerminal)
			}
		}

		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		businessRoutes.Use(middleware.Authorize(models.RoleTerminal, models.RoleCertifier, models.RoleAdmin))
		{
			documents := businessRoutes.Group("/documents")
			{
				createDocumentRoutes := documents.Group("/")
				createDocumentRoutes.Use(middleware.RateLimit(documentLimiter))
				{
					createDocumentRoutes.POST("/", documentHandler.CreateDocument)
				}

				documents.GET("/:id", documentHandler.GetDocument)
				documents.POST("/:id/evidence", evidenceHandler.AttachEvidence)
				documents.POST("/:id/evidence/photo", evidenceHandler.UploadPhoto)
				documents.GET("/:id/evidence", evidenceHandler.ListEvidence)
				documents.POST("/:id/signature/simple", signatureHandler.SignSimple)

				// Sólo certificadores aplican FEA o rechazan.
				certifierRoutes := documents.Group("/")
				certifierRoutes.Use(middleware.Authorize(models.RoleCertifier, models.RoleAdmin))
				{
					certifierRoutes.POST("/:id/signature/advanced", signatureHandler.SignAdvanced)
					certifierRoutes.POST("/:id/reject", documentHandler.RejectDocument)
				}
			}

			// Listado para la mesa del certificador.
			certifierDesk := businessRoutes.Group("/")
			certifierDesk.Use(middleware.Authorize(models.RoleCertifier, models.RoleAdmin))
			{
				certifierDesk.GET("/documents", documentHandler.ListDocuments)
				certifierDesk.GET("/signer/certificates", signatureHandler.ListCertificates)
			}
		}
	}

	return router
}
