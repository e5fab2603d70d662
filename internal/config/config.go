package config

import (
	"os"
	"strings"
)

// Config keeps runtime settings for the desktop process.
type Config struct {
	// DatabasePath is the SQLite file holding categories and tasks.
	DatabasePath string
	// ReminderTime, when set, schedules a daily due-task digest at HH:MM.
	// The scheduler validates the format when the job is registered.
	ReminderTime string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	cfg := Config{
		DatabasePath: strings.TrimSpace(os.Getenv("TASKDESK_DB")),
		ReminderTime: strings.TrimSpace(os.Getenv("TASKDESK_REMINDER_TIME")),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "tasks.db"
	}

	return cfg
}
