package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"asistio.com/asistio/core"
	"asistio.com/asistio/infrastructure/communication"
	"asistio.com/asistio/infrastructure/devops"
)

// ScanEvent is the scheduled trigger payload. Date overrides the scan date
// for backfills, formatted yyyy-MM-dd in business time.
type ScanEvent struct {
	Date   string `json:"date"`
	DryRun bool   `json:"dryRun"`
}

func HandleRequest(ctx context.Context, event ScanEvent) (core.ScanSummary, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return core.ScanSummary{}, err
	}
	defer logger.Sync()

	settings, err := devops.LoadSettings(ctx)
	if err != nil {
		return core.ScanSummary{}, fmt.Errorf("failed to load settings: %w", err)
	}

	db, err := core.ConnectDB(os.Getenv("DSN"), core.LogLevelError)
	if err != nil {
		return core.ScanSummary{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := core.NewStore(db)
	slack := communication.ConnectSlack(settings.SlackInfoChannel, settings.SlackErrorChannel)

	detector := &core.Detector{
		Users:     store,
		TimeOff:   store,
		Schedules: store,
		CheckIns:  store,
		Issues:    store,
		Notifier:  slack,
		Logger:    logger,
		Opts: core.ScanOptions{
			Grace:  time.Duration(settings.GraceMinutes) * time.Minute,
			DryRun: event.DryRun,
		},
	}

	now := time.Now()
	if event.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", event.Date, core.BusinessTZ)
		if err != nil {
			return core.ScanSummary{}, fmt.Errorf("invalid date %q: %w", event.Date, err)
		}
		// End of the requested day so every checkpoint is past its grace.
		now = parsed.Add(23*time.Hour + 59*time.Minute)
	}

	summary, err := detector.Run(ctx, now)
	if err != nil {
		_ = slack.Error(fmt.Sprintf("absence scan failed for %s: %v", summary.Date, err))
		return summary, err
	}

	verb := "created"
	if event.DryRun {
		verb = "would be created"
	}
	message := fmt.Sprintf("absence scan %s: %d users processed, %d skipped, %d issues %s",
		summary.Date, summary.Processed, summary.Skipped, summary.IssuesCreated, verb)
	if summary.Errored > 0 {
		message += fmt.Sprintf(", %d errored:\n%s", summary.Errored, strings.Join(summary.Errors, "\n"))
		_ = slack.Error(message)
	} else if !event.DryRun {
		_ = slack.Info(message)
	}

	logger.Info("scan finished",
		zap.String("date", summary.Date),
		zap.Int("processed", summary.Processed),
		zap.Int("issuesCreated", summary.IssuesCreated),
		zap.Int("errored", summary.Errored))

	return summary, nil
}

func main() {
	// LOCAL_RUN executes one scan outside Lambda for testing against a
	// development database.
	if os.Getenv("LOCAL_RUN") != "" {
		summary, err := HandleRequest(context.Background(), ScanEvent{DryRun: true})
		if err != nil {
			fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%+v\n", summary)
		return
	}

	lambda.Start(HandleRequest)
}
