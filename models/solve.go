// file: models/solve.go
package models

import (
	"time"
)

// Solve 解题记录，(user_id, challenge_id) 唯一。
// 唯一索引是并发安全边界：同一用户两次并发的正确提交只会落下一行，
// 冲突由存储层按"已存在"吞掉。
type Solve struct {
	ID          uint64    `gorm:"primarykey"`
	UserID      uint32    `gorm:"uniqueIndex:unique_user_challenge;not null"`
	ChallengeID uint32    `gorm:"uniqueIndex:unique_user_challenge;not null"`
	TeamID      *uint32   `gorm:"index"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (Solve) TableName() string {
	return "astra_solve"
}
