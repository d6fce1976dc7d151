package app

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/pkg/common"
)

const (
	SettingsAdminCategory     = "admin"
	SettingsAdminPasswordHash = "password_hash"

	defaultAdminPassword = "447hot"
)

// checkAdminPassword seeds the back-office password hash when no settings
// row exists yet. Only the bcrypt hash is stored.
func (a *Application) checkAdminPassword() {
	var row domain.SysConfig
	err := a.gormDB.
		Where("type = ? and name = ?", SettingsAdminCategory, SettingsAdminPasswordHash).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.SysConfig{
			ID:     common.UUIDint64(),
			Type:   SettingsAdminCategory,
			Name:   SettingsAdminPasswordHash,
			Value:  string(hash),
			Remark: "back-office password hash",
		}).Error; err != nil {
			zap.L().Error("failed to seed admin password", zap.Error(err))
			return
		}
		zap.L().Info("initialized default admin password")
	case err != nil:
		zap.L().Error("failed to query admin password setting", zap.Error(err))
	}
}

// checkShopInfo seeds the singleton shop metadata row so a fresh database
// immediately serves sensible shop info.
func (a *Application) checkShopInfo() {
	var info domain.ShopInfo
	err := a.gormDB.Where("id = ?", domain.ShopInfoID).First(&info).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seed := domain.DefaultShopInfo()
		if err := a.gormDB.Create(&seed).Error; err != nil {
			zap.L().Error("failed to seed shop info", zap.Error(err))
			return
		}
		zap.L().Info("initialized default shop info", zap.String("name", seed.Name))
	case err != nil:
		zap.L().Error("failed to query shop info", zap.Error(err))
	}
}
