package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ericogr/creature-arena/internal/constants"
)

// Open connects with the named driver and keeps the schema updated via
// AutoMigrate. Tables are never dropped on startup.
func Open(driver, dataSourceName string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case constants.DriverSQLite, "":
		dialector = sqlite.Open(dataSourceName)
	case constants.DriverPostgres:
		dialector = postgres.Open(dataSourceName)
	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&BattleRecord{}, &TurnLog{}, &BattleOutcome{}); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenAndMigrate opens a SQLite database file.
func OpenAndMigrate(path string) (*gorm.DB, error) {
	return Open(constants.DriverSQLite, path)
}
