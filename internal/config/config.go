// Package config reads stridelog settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/julianstephens/stridelog/internal/constants"
)

type (
	Container struct {
		App       *App
		Intervals *Intervals
		Webhooks  *Webhooks
		DB        *DB
		Log       *Log
	}

	App struct {
		Env      string
		Timezone string
	}

	Intervals struct {
		APIKey    string
		BaseURL   string
		AthleteID string
	}

	Webhooks struct {
		URLs   map[constants.WebhookEvent]string
		Secret string
	}

	DB struct {
		Connection string
	}

	Log struct {
		Level string
	}
)

// New loads files (".env" when none are given) unless STRIDELOG_ENV is
// production, then reads the environment. Missing env files are ignored.
func New(files ...string) (*Container, error) {
	if os.Getenv("STRIDELOG_ENV") != "production" {
		if len(files) == 0 {
			files = []string{".env"}
		}
		for _, f := range files {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	app := &App{
		Env:      os.Getenv("STRIDELOG_ENV"),
		Timezone: getenv("STRIDELOG_TIMEZONE", constants.DefaultTimezone),
	}

	intervals := &Intervals{
		APIKey:    os.Getenv("INTERVALS_API_KEY"),
		BaseURL:   getenv("INTERVALS_BASE_URL", constants.DefaultIntervalsURL),
		AthleteID: getenv("INTERVALS_ATHLETE_ID", constants.CurrentAthleteID),
	}

	webhooks := &Webhooks{
		URLs: map[constants.WebhookEvent]string{
			constants.EventWorkoutCreated:    os.Getenv("N8N_WEBHOOK_WORKOUT_CREATED"),
			constants.EventWorkoutCompleted:  os.Getenv("N8N_WEBHOOK_WORKOUT_COMPLETED"),
			constants.EventStatsUpdated:      os.Getenv("N8N_WEBHOOK_STATS_UPDATED"),
			constants.EventAthleteRegistered: os.Getenv("N8N_WEBHOOK_ATHLETE_REGISTERED"),
		},
		Secret: os.Getenv("N8N_WEBHOOK_SECRET"),
	}

	db := &DB{
		Connection: os.Getenv("STRIDELOG_DB_CONNECTION"),
	}

	log := &Log{
		Level: os.Getenv("STRIDELOG_LOG_LEVEL"),
	}

	return &Container{
		App:       app,
		Intervals: intervals,
		Webhooks:  webhooks,
		DB:        db,
		Log:       log,
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
