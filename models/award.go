// file: models/award.go
package models

import (
	"time"
)

// Award 管理员手动加减分（奖励/处罚），计入用户总分
type Award struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint32    `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Value       int       `gorm:"not null" json:"value"`
	CreatedBy   uint32    `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Award) TableName() string {
	return "astra_award"
}
