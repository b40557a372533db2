package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/booking-site/internal/config"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.User{},
		&models.Service{},
		&models.WeeklyRule{},
		&models.ServiceAvailabilitySlot{},
		&models.ScheduleBlock{},
		&models.BookingSettings{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	ensureOverlapGuard(db, log)

	if err := backfillSettings(db, cfg, log); err != nil {
		return nil, err
	}

	return db, nil
}

type execer interface {
	Exec(sql string, values ...interface{}) *gorm.DB
}

// backfillSettings gives profiles created before settings existed the
// defaults, and fills empty timezones.
func backfillSettings(db execer, cfg *config.Config, log *zap.Logger) error {
	res := db.Exec(`
		INSERT INTO booking_settings
			(profile_id, buffer_minutes, advance_booking_days, min_advance_hours,
			 cancellation_hours, auto_confirm, timezone, language, slot_step_minutes,
			 created_at, updated_at)
		SELECT p.id, 0, 60, 2, 24, false, ?, 'en', ?, NOW(), NOW()
		FROM profiles p
		WHERE NOT EXISTS (SELECT 1 FROM booking_settings s WHERE s.profile_id = p.id)
	`, cfg.DefaultTimezone, cfg.SlotStepMinutes)
	if res.Error != nil {
		return fmt.Errorf("backfill booking settings: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Info("backfilled booking settings", zap.Int64("profiles", res.RowsAffected))
	}

	if err := db.Exec(
		`UPDATE booking_settings SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		cfg.DefaultTimezone,
	).Error; err != nil {
		return fmt.Errorf("backfill settings timezone: %w", err)
	}
	return nil
}

// overlapGuardSQL adds an exclusion constraint so two occupying bookings of a
// profile can never overlap on the same date, whatever path wrote them.
var overlapGuardSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
				profile_id WITH =,
				date WITH =,
				int4range(start_minute, end_minute) WITH &&
			) WHERE (status IN ('PENDING', 'CONFIRMED'));
		END IF;
	END $$`,
}

// ensureOverlapGuard installs the constraint. Managed databases may refuse
// the extension; the locker and advisory lock still serialize writers then.
func ensureOverlapGuard(db execer, log *zap.Logger) {
	for _, stmt := range overlapGuardSQL {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("booking overlap constraint not installed", zap.Error(err))
			return
		}
	}
}
