package route

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j-marthe/sistema-gestion-archivos-backend/config"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/audit"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/category"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/document"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/login"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/logout"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/metrics"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/refresh"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/register"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/storage"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/user"
	authsdk "github.com/j-marthe/sistema-gestion-archivos-backend/packages/auth-sdk"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

// Dependencies 启动时建立的外部资源，Redis 可为 nil
type Dependencies struct {
	Conf    *config.AppConfig
	DB      *gorm.DB
	Redis   *database.RedisClient
	Storage storage.Storage
	Logger  *zap.Logger
}

// 未配置 cors.allow_origins 时允许的前端地址
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func initRoute(r *gin.Engine, deps Dependencies) {
	conf, db, logger := deps.Conf, deps.DB, deps.Logger

	// 初始化依赖
	issuer := authsdk.NewIssuer(conf.JWT.Secret, conf.JWT.AccessTTL())

	userService := user.NewUserService(user.NewUserRepository(db), user.NewBcryptHasher(), logger)

	var sessionStore refresh.Store
	if deps.Redis != nil {
		sessionStore = refresh.NewRedisStore(deps.Redis)
	}
	refreshService := refresh.NewRefreshTokenService(sessionStore, issuer, userService, conf.JWT.RefreshTTL(), logger)

	auditService := audit.NewAuditService(audit.NewAuditRepository(db), logger)
	categoryService := category.NewCategoryService(category.NewCategoryRepository(db), logger)
	documentService := document.NewDocumentService(
		db,
		document.NewDocumentRepository(db),
		document.NewVersionRepository(db),
		deps.Storage,
		auditService,
		logger,
	)

	// 初始化handler
	registerHandler := register.NewRegisterHandler(register.NewRegisterService(userService), logger)
	loginHandler := login.NewLoginHandler(
		login.NewLoginService(userService, issuer, refreshService, logger),
		int(refreshService.TTL().Seconds()),
		logger,
	)
	refreshHandler := refresh.NewRefreshTokenHandler(refreshService, logger)
	logoutHandler := logout.NewLogoutHandler(refreshService, logger)
	userHandler := user.NewUserHandler(userService, refreshService, logger)
	categoryHandler := category.NewCategoryHandler(categoryService, logger)
	documentHandler := document.NewDocumentHandler(documentService, conf.Server.MaxUploadMB, logger)
	auditHandler := audit.NewAuditHandler(auditService, logger)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", healthz(db))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		register.RegisterRoutes(authGroup, registerHandler)
		login.RegisterRoutes(authGroup, loginHandler)
		refresh.RegisterRoutes(authGroup, refreshHandler)
		logout.RegisterRoutes(authGroup, logoutHandler)

		jwt := middleware.JWTAuth(conf.JWT.Secret)
		protected := apiV1.Group("", jwt)
		user.RegisterRoutes(authGroup.Group("", jwt), protected, userHandler)
		category.RegisterRoutes(protected, categoryHandler)
		document.RegisterRoutes(protected, documentHandler)
		audit.RegisterRoutes(protected, auditHandler)
	}
}

// healthz 检查数据库连通性
func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, response.ErrorResponse(response.DependencyFailure, "数据库不可用"))
			return
		}
		dto.SuccessResponse(c, gin.H{"status": "ok"})
	}
}

func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Conf.Server.Mode != "" {
		gin.SetMode(deps.Conf.Server.Mode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.RequestLogger(deps.Logger), metrics.Middleware())

	allowedOrigins := deps.Conf.CORS.AllowOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultOrigins
	}

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	initRoute(r, deps)

	return r
}
