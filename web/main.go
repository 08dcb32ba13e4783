package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"asistio.com/asistio/core"
	"asistio.com/asistio/core/models"
	"asistio.com/asistio/infrastructure/communication"
	"asistio.com/asistio/infrastructure/devops"
	"asistio.com/asistio/infrastructure/filesystem"
	"asistio.com/asistio/infrastructure/vision"
	"asistio.com/asistio/web/handlers"
	"asistio.com/asistio/web/middlewares"
)

// newPhotoPipeline assembles the S3 fetch, genai classification and gorm
// patch into the asynchronous validation path. Returns nil when the
// classifier cannot start; events then wait for manual review.
func newPhotoPipeline(ctx context.Context, db *gorm.DB, bucket string, logger *zap.Logger) *core.PhotoPipeline {
	classifier, err := vision.NewClassifier(ctx)
	if err != nil {
		logger.Warn("photo classifier disabled", zap.Error(err))
		return nil
	}

	return &core.PhotoPipeline{
		Fetch: func(ctx context.Context, key string) ([]byte, string, error) {
			var buf bytes.Buffer
			if err := filesystem.ReadFile(bucket, key, ctx, &buf); err != nil {
				return nil, "", err
			}
			return buf.Bytes(), filesystem.ContentType(key), nil
		},
		Classify: classifier.ClassifyPhoto,
		Apply: func(ctx context.Context, checkInID string, verdict core.PhotoVerdict) error {
			return core.ApplyPhotoVerdict(ctx, db, checkInID, verdict)
		},
		Logger: logger,
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	settings, err := devops.LoadSettings(ctx)
	if err != nil {
		logger.Fatal("failed to load settings", zap.Error(err))
	}

	dsn := os.Getenv("DSN")
	db, err := core.ConnectDB(dsn, core.LogLevelWarn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := core.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	base64Secret := os.Getenv("ASISTIO_SIGNING_SECRET")
	jwtSecret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		logger.Fatal("failed to decode JWT secret", zap.Error(err))
	}

	env := &handlers.Env{
		DB:       db,
		Store:    core.NewStore(db),
		Settings: settings,
		Notifier: communication.ConnectSlack(settings.SlackInfoChannel, settings.SlackErrorChannel),
		Photos:   newPhotoPipeline(ctx, db, settings.PhotoBucket, logger),
		Logger:   logger,
	}

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		handlers.RegisterCheckIns(protected, env)
		handlers.RegisterTimeOff(protected, env)

		supervisor := protected.Group("")
		supervisor.Use(middlewares.RequireRole(models.RoleAdmin, models.RoleSupervisor))
		{
			handlers.RegisterIssues(supervisor, env)
		}

		admin := protected.Group("")
		admin.Use(middlewares.RequireRole(models.RoleAdmin))
		{
			handlers.RegisterKiosks(admin, env)
			handlers.RegisterSchedules(admin, env)
			handlers.RegisterUsers(admin, env)
			handlers.RegisterAdmin(admin, env)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8090"
	}
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
