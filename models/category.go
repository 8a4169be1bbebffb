// file: models/category.go
package models

import (
	"time"
)

// Category 题目方向分类（web/pwn/crypto/reverse/misc 等）
type Category struct {
	ID          uint32    `gorm:"primarykey" json:"id"`
	Direction   string    `gorm:"size:50;unique;not null" json:"direction"`
	Alias       string    `gorm:"size:50" json:"alias"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "astra_category"
}
