// file: models/notification.go
package models

import (
	"time"
)

type NotificationLevel string

const (
	NotificationInfo      NotificationLevel = "info"
	NotificationImportant NotificationLevel = "important"
)

// Notification 全站公告，由管理员发布
type Notification struct {
	ID        uint64            `gorm:"primarykey" json:"id"`
	Title     string            `gorm:"size:200;not null" json:"title"`
	Content   string            `gorm:"type:text;not null" json:"content"`
	Level     NotificationLevel `gorm:"type:enum('info','important');default:'info'" json:"level"`
	CreatedBy uint32            `gorm:"not null" json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Notification) TableName() string {
	return "astra_notification"
}
