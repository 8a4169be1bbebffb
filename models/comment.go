// file: models/comment.go
package models

import (
	"time"
)

// Comment 题目评论，可附带 1~5 星评分（Rating 为空表示纯评论）
type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ChallengeID uint32    `gorm:"index;not null" json:"challenge_id"`
	UserID      uint32    `gorm:"not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Rating      *uint8    `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "astra_comment"
}
