package routes

import (
	"log"
	"strconv"

	"quickfix/internal/adapter/http/handlers"
	"quickfix/internal/adapter/http/middleware"
	repository2 "quickfix/internal/adapter/persistence/repository"
	"quickfix/internal/infrastructure/auth"
	"quickfix/internal/infrastructure/database"
	"quickfix/internal/infrastructure/storage"
	"quickfix/internal/usecase"
	"quickfix/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	appLog := logger.New(envDefault("APP_ENV", "dev"))

	ddb := database.ConnectDynamoDB()
	streams := database.ConnectDynamoDBStreams()
	s3c := storage.ConnectS3()

	customerRepo := repository2.NewCustomerDynamoRepository(ddb)
	accountRepo := repository2.NewAccountDynamoRepository(ddb)
	sessionRepo := repository2.NewSessionDynamoRepository(ddb)
	requestRepo := repository2.NewRequestDynamoRepository(ddb)
	requestWatcher := repository2.NewRequestStreamWatcher(ddb, streams, requestRepo, appLog)
	photoStore := storage.NewS3PhotoStore(s3c)

	jwtManager := auth.NewJWTManagerFromEnv()

	identityUseCase := usecase.NewIdentityUseCase(customerRepo, sessionRepo, appLog)
	accountUseCase := usecase.NewAccountUseCase(accountRepo, customerRepo, sessionRepo, jwtManager, appLog)
	requestUseCase := usecase.NewRequestUseCase(requestRepo, requestWatcher, photoStore, appLog)

	authHandler := handlers.NewAuthHandler(accountUseCase)
	requestHandler := handlers.NewRequestHandler(requestUseCase)

	sessionRequired := middleware.SessionRequired(jwtManager, sessionRepo)
	customerRequired := middleware.CustomerRequired(identityUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addAuthRoutes(v1, authHandler, sessionRequired, customerRequired)
	addRequestRoutes(v1, requestHandler, sessionRequired, customerRequired)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
