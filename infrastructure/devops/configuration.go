package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Settings is the application configuration document, stored as yaml in a
// single SSM parameter. A local file override (ASISTIO_SETTINGS_FILE) is
// supported for development.
type Settings struct {
	DefaultRadiusMeters     float64 `yaml:"defaultRadiusMeters"`
	EarlyThresholdMinutes   int32   `yaml:"earlyThresholdMinutes"`
	CommentThresholdMinutes int32   `yaml:"commentThresholdMinutes"`
	SevereLateMinutes       int32   `yaml:"severeLateMinutes"`
	GraceMinutes            int32   `yaml:"graceMinutes"`
	PhotoBucket             string  `yaml:"photoBucket"`
	SlackInfoChannel        string  `yaml:"slackInfoChannel"`
	SlackErrorChannel       string  `yaml:"slackErrorChannel"`
}

var (
	once     sync.Once
	settings Settings
	loadErr  error
)

func applyDefaults(s *Settings) {
	if s.DefaultRadiusMeters == 0 {
		s.DefaultRadiusMeters = 150
	}
	if s.EarlyThresholdMinutes == 0 {
		s.EarlyThresholdMinutes = 10
	}
	if s.CommentThresholdMinutes == 0 {
		s.CommentThresholdMinutes = 15
	}
	if s.SevereLateMinutes == 0 {
		s.SevereLateMinutes = 30
	}
	if s.GraceMinutes == 0 {
		s.GraceMinutes = 60
	}
}

// LoadSettings resolves the settings document once per process.
func LoadSettings(ctx context.Context) (Settings, error) {
	once.Do(func() {
		if path := os.Getenv("ASISTIO_SETTINGS_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("read settings file: %w", err)
				return
			}
			if err := yaml.Unmarshal(data, &settings); err != nil {
				loadErr = fmt.Errorf("unmarshal yaml: %w", err)
				return
			}
			applyDefaults(&settings)
			return
		}

		paramName := os.Getenv("ASISTIO_SETTINGS_PARAM")
		if paramName == "" {
			paramName = "asistio-settings"
		}

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter: %w", err)
			return
		}

		if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &settings); err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}
		applyDefaults(&settings)
	})

	return settings, loadErr
}
