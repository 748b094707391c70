package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/pkg/logger"
)

// InitDB 按配置打开数据库、设置连接池、注册 tracing，并按需声明表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dc := cfg.Database
	db, err := Open(dc.Driver, dc.DSN, &gorm.Config{
		Logger: NewGormLogger(logger.L(), ParseLogLevel(dc.LogLevel), dc.SlowThreshold),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if dc.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dc.MaxOpenConns)
	}
	if dc.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dc.MaxIdleConns)
	}
	if dc.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dc.ConnMaxLifetime)
	}

	if err := RegisterTracing(db); err != nil {
		return nil, err
	}

	if dc.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	logger.Info("database ready", zap.String("driver", dc.Driver), zap.Bool("auto_migrate", dc.AutoMigrate))
	return db, nil
}

// Open 打开 gorm 连接。sqlite 强制开启外键，否则级联删除不生效
func Open(driver, dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(sqliteDSN(dsn))
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	return db, nil
}

// Migrate 声明 users / posts / comments / likes 四张表及其约束
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqliteDSN 补齐 sqlite 连接参数：外键、忙等待
func sqliteDSN(dsn string) string {
	params := []struct{ key, alias, value string }{
		{"_foreign_keys", "_fk", "on"},
		{"_busy_timeout", "_timeout", "5000"},
	}
	for _, p := range params {
		if strings.Contains(dsn, p.key+"=") || strings.Contains(dsn, p.alias+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.key + "=" + p.value
	}
	return dsn
}

func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
