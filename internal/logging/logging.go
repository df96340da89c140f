// Package logging configures the process-wide logrus logger and bridges gorm's
// SQL logging into it.
package logging

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/criminaldb/internal/config"
)

// Configure applies the level and format from cfg to the standard logrus logger.
func Configure(cfg config.Log) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", cfg.Format)
	}
	return nil
}

// GormLogger returns a gorm logger writing through logrus at the given level
// (silent, error, warn or info). Unknown levels fall back to warn.
func GormLogger(level string) gormlogger.Interface {
	return gormlogger.New(log.StandardLogger(), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
