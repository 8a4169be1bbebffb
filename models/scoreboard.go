// file: models/scoreboard.go
package models

import (
	"time"
)

type ScoreboardScope string

const (
	ScopeTeam ScoreboardScope = "team"
	ScopeUser ScoreboardScope = "user"
)

// Scoreboard 对应 astra_scoreboard 缓存表，由排行榜服务整表重建
type Scoreboard struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Scope         ScoreboardScope `gorm:"type:enum('team','user');not null" json:"scope"`
	SubjectID     uint32          `gorm:"not null" json:"subject_id"`
	SubjectName   string          `gorm:"size:100;not null" json:"subject_name"`
	Score         int             `gorm:"not null" json:"score"`
	LastSolveTime *time.Time      `json:"last_solve_time,omitempty"`
	Rank          uint            `gorm:"not null" json:"rank"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Scoreboard) TableName() string {
	return "astra_scoreboard"
}
