package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/janakural/internal/models"
)

// zapWriter adapts zap to GORM's logger.Writer.
type zapWriter struct {
	sugar *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// Open 打开指定路径的 SQLite 数据库并执行自动迁移
// 数据库文件所在的目录不存在时会自动创建
func Open(dbPath string, log *zap.Logger) (*gorm.DB, error) {
	dbDir := filepath.Dir(dbPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		log.Info("Database directory does not exist, creating it", zap.String("dir", dbDir))
		if mkErr := os.MkdirAll(dbDir, 0755); mkErr != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, mkErr)
		}
	}

	gormLogger := logger.New(
		zapWriter{sugar: log.Named("gorm").Sugar()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbPath, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	// SQLite 只允许一个写连接，避免 "database is locked"
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate 自动迁移数据库表结构
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Administrator{},
		&models.Issue{},
		&models.IssueHistory{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate database tables: %w", err)
	}
	return nil
}

// Close 关闭 GORM 数据库连接 (通常在应用退出时调用)
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("error getting underlying sql.DB for closing: %w", err)
	}
	return sqlDB.Close()
}
