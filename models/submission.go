// file: models/submission.go
package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionCorrect   SubmissionStatus = "CORRECT"
	SubmissionIncorrect SubmissionStatus = "INCORRECT"
)

// Submission 提交记录，(user_id, challenge_id) 唯一：重复提交不落新行
type Submission struct {
	ID            uint64           `gorm:"primarykey"`
	UserID        uint32           `gorm:"uniqueIndex:unique_user_challenge_sub;not null"`
	ChallengeID   uint32           `gorm:"uniqueIndex:unique_user_challenge_sub;not null"`
	TeamID        *uint32          `gorm:"index"`
	SubmittedFlag string           `gorm:"size:255;not null"`
	Status        SubmissionStatus `gorm:"type:enum('CORRECT','INCORRECT');not null"`
	IPAddress     string           `gorm:"size:45"`
	Suspected     bool             `gorm:"default:0"`
	SubmittedAt   time.Time        `gorm:"default:CURRENT_TIMESTAMP"`
}

func (Submission) TableName() string {
	return "astra_submission"
}
