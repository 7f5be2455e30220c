package repository

import (
	"time"

	"github.com/lysokunvoath/grex/internal/config"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the server, in migration order.
var Models = []any{
	&models.User{},
	&models.RefreshToken{},
	&models.Group{},
	&models.GroupMember{},
	&models.Meetup{},
}

// InitDB connects to Postgres and migrates the schema. Unique violations
// come back as gorm.ErrDuplicatedKey.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return db, nil
}
