package handlers

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"asistio.com/asistio/core"
	"asistio.com/asistio/infrastructure/devops"
)

// Env is shared by every endpoint group: one pool, one store, the loaded
// settings document and the outbound notifier.
type Env struct {
	DB       *gorm.DB
	Store    *core.Store
	Settings devops.Settings
	Notifier core.Notifier
	// Photos classifies freshly submitted photos; nil disables automatic
	// classification, leaving events pending for the review queue.
	Photos *core.PhotoPipeline
	Logger *zap.Logger
}

func (e *Env) submitOptions() core.SubmitOptions {
	return core.SubmitOptions{
		DefaultRadius:           e.Settings.DefaultRadiusMeters,
		EarlyThreshold:          time.Duration(e.Settings.EarlyThresholdMinutes) * time.Minute,
		CommentThresholdMinutes: e.Settings.CommentThresholdMinutes,
		SevereLateMinutes:       e.Settings.SevereLateMinutes,
		Logger:                  e.Logger,
	}
}
