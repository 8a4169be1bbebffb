// file: models/solve_feed.go
package models

import (
	"time"
)

// SolveFeed 对应 astra_solve_feed 缓存表，实时解题动态
type SolveFeed struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	ChallengeID   uint32    `gorm:"not null" json:"challenge_id"`
	ChallengeName string    `gorm:"size:100;not null" json:"challenge_name"`
	UserID        uint32    `gorm:"not null" json:"user_id"`
	Username      string    `gorm:"size:50;not null" json:"username"`
	TeamID        *uint32   `json:"team_id,omitempty"`
	TeamName      string    `gorm:"size:100" json:"team_name,omitempty"`
	Score         int       `gorm:"not null" json:"score"`
	SolvingTime   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"solving_time"`
}

func (SolveFeed) TableName() string {
	return "astra_solve_feed"
}
