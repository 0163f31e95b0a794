package config

import (
	"fmt"
	"log"

	"workforce-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		GetEnv("DB_USER", "root"),
		GetEnv("DB_PASSWORD", ""),
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnvAsInt("DB_PORT", 3306),
		GetEnv("DB_NAME", "workforce"),
	)

	// TranslateError surfaces duplicate-key violations as
	// gorm.ErrDuplicatedKey; the open-session invariants rely on it.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	// AutoMigrate keeps the schema in sync with the models, including
	// the unique marker columns the open-row invariants depend on.
	if err := db.AutoMigrate(
		&model.Organization{},
		&model.Team{},
		&model.TeamMember{},
		&model.User{},
		&model.ClockEntry{},
		&model.BreakPolicy{},
		&model.BreakWindow{},
		&model.BreakEntry{},
		&model.ClockRestriction{},
		&model.RestrictionWindow{},
		&model.ClockOverrideRequest{},
	); err != nil {
		log.Fatalf("auto migration failed: %v", err)
	}

	DB = db
}
