package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/barbeariaprime/primeapp/config"
	"github.com/barbeariaprime/primeapp/internal/synccache"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, name string) string
	GetSettingsInt64Value(category, name string) int64
	GetSettingsBoolValue(category, name string) bool
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// CacheProvider provides sync cache access
type CacheProvider interface {
	Cache() *synccache.Cache
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	CacheProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
