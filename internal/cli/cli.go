// Package cli implements the grievancectl operator commands.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"gorm.io/gorm"

	"github.com/grievance_system/configs"
	"github.com/grievance_system/pkg/db"
	"github.com/grievance_system/pkg/logger"
)

// Opener returns a migrated database handle and the configuration it was
// opened with. The returned func releases the handle.
type Opener func() (*gorm.DB, *configs.Configuration, func(), error)

// OpenFromEnv opens the database described by the process environment.
func OpenFromEnv() (*gorm.DB, *configs.Configuration, func(), error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	gormDB, err := db.Open(cfg, logger.Discard())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		db.Close(gormDB)
		return nil, nil, nil, err
	}
	return gormDB, cfg, func() { db.Close(gormDB) }, nil
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	skipMark = color.New(color.FgYellow).Sprint("!")
	roleTint = map[string]*color.Color{
		"admin":   color.New(color.FgHiMagenta),
		"officer": color.New(color.FgCyan),
		"citizen": color.New(color.FgWhite),
	}
	priorityTint = map[string]*color.Color{
		"High":   color.New(color.FgRed),
		"Medium": color.New(color.FgYellow),
		"Low":    color.New(color.FgGreen),
	}
)

func tint(palette map[string]*color.Color, value string) string {
	if c, ok := palette[value]; ok {
		return c.Sprint(value)
	}
	return value
}
