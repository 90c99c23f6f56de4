package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/envutil"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

type Config struct {
	Environment  string
	Version      string
	DBDriver     string
	HTTPAddr     string
	MetricsAddr  string
	CORSOrigins  []string
	JWTSecretKey string
	Scheduling   SchedulingConfig
}

type WorkingHoursConfig struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// SchedulingConfig is the deployment's calendar policy, read from the YAML
// file at SCHEDULING_CONFIG and overridden by environment variables.
type SchedulingConfig struct {
	WorkingHours WorkingHoursConfig          `yaml:"working_hours"`
	GridMinutes  int                         `yaml:"grid_minutes"`
	Timezone     string                      `yaml:"timezone"`
	SessionPrep  services.SessionPrepOptions `yaml:"session_prep"`
}

func DefaultSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		WorkingHours: WorkingHoursConfig{StartHour: 9, EndHour: 17},
		GridMinutes:  30,
		Timezone:     "UTC",
		SessionPrep:  services.DefaultSessionPrepOptions(),
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	sched, err := LoadSchedulingConfig(envutil.String("SCHEDULING_CONFIG", ""))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Environment:  envutil.String("APP_ENV", "development"),
		Version:      envutil.String("APP_VERSION", "dev"),
		DBDriver:     strings.ToLower(envutil.String("DB_DRIVER", "postgres")),
		HTTPAddr:     envutil.String("HTTP_ADDR", ":8080"),
		MetricsAddr:  envutil.String("METRICS_ADDR", ""),
		CORSOrigins:  envutil.List("CORS_ALLOW_ORIGINS", nil),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		Scheduling:   sched,
	}
	if cfg.JWTSecretKey == "" && log != nil {
		log.Warn("JWT_SECRET_KEY is not set; every authenticated request will be rejected")
	}
	return cfg, nil
}

// LoadSchedulingConfig reads path (optional), applies env overrides and
// validates the result. A missing file is not an error.
func LoadSchedulingConfig(path string) (SchedulingConfig, error) {
	cfg := DefaultSchedulingConfig()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return SchedulingConfig{}, fmt.Errorf("read scheduling config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return SchedulingConfig{}, fmt.Errorf("parse scheduling config %s: %w", path, err)
			}
		}
	}

	cfg.WorkingHours.StartHour = envutil.Int("WORKING_HOURS_START", cfg.WorkingHours.StartHour)
	cfg.WorkingHours.EndHour = envutil.Int("WORKING_HOURS_END", cfg.WorkingHours.EndHour)
	cfg.GridMinutes = envutil.Int("AVAILABILITY_GRID_MINUTES", cfg.GridMinutes)
	cfg.Timezone = envutil.String("CALENDAR_TIMEZONE", cfg.Timezone)

	if err := cfg.validate(); err != nil {
		return SchedulingConfig{}, err
	}
	return cfg, nil
}

func (c SchedulingConfig) validate() error {
	wh := types.WorkingHours{StartHour: c.WorkingHours.StartHour, EndHour: c.WorkingHours.EndHour}
	if err := wh.Validate("LoadSchedulingConfig"); err != nil {
		return err
	}
	if c.GridMinutes <= 0 {
		return fmt.Errorf("grid_minutes must be positive, got %d", c.GridMinutes)
	}
	if _, err := c.location(); err != nil {
		return err
	}
	return nil
}

func (c SchedulingConfig) location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return loc, nil
}

func (c SchedulingConfig) AvailabilityOptions() services.AvailabilityOptions {
	loc, err := c.location()
	if err != nil {
		loc = time.UTC
	}
	return services.AvailabilityOptions{
		WorkingHours: types.WorkingHours{StartHour: c.WorkingHours.StartHour, EndHour: c.WorkingHours.EndHour},
		Grid:         time.Duration(c.GridMinutes) * time.Minute,
		Location:     loc,
	}
}
