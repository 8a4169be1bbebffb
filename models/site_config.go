// file: models/site_config.go
package models

import (
	"time"
)

// SiteConfig 站点配置键值对；Public 为 true 的项对未登录用户可见
type SiteConfig struct {
	ID        uint32    `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"size:100;unique;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Public    bool      `gorm:"default:0" json:"public"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteConfig) TableName() string {
	return "astra_site_config"
}
