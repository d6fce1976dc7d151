package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/pkg/common"
)

// SettingsManager reads sys_config rows through a short-lived cache so hot
// paths never hit the database per lookup.
type SettingsManager struct {
	db    *gorm.DB
	mu    sync.Mutex
	cache map[string]string
	stamp time.Time
	ttl   time.Duration
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{db: db, ttl: 30 * time.Second}
}

func (m *SettingsManager) key(category, name string) string {
	return category + "." + name
}

func (m *SettingsManager) load() {
	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		zap.L().Error("settings load failed", zap.Error(err))
		return
	}
	cache := make(map[string]string, len(rows))
	for _, row := range rows {
		cache[m.key(row.Type, row.Name)] = row.Value
	}
	m.cache = cache
	m.stamp = time.Now()
}

func (m *SettingsManager) get(category, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cache == nil || time.Since(m.stamp) > m.ttl {
		m.load()
	}
	return m.cache[m.key(category, name)]
}

func (m *SettingsManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// Set writes a settings value through to the database and invalidates the
// cache.
func (m *SettingsManager) Set(category, name, value string) error {
	var row domain.SysConfig
	err := m.db.Where("type = ? and name = ?", category, name).First(&row).Error
	if err == nil {
		err = m.db.Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	} else {
		err = m.db.Create(&domain.SysConfig{
			ID:    common.UUIDint64(),
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cache = nil
	m.mu.Unlock()
	return nil
}
