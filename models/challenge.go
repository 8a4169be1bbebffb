// file: models/challenge.go
package models

import (
	"time"
)

type ChallengeState string
type ChallengeType string
type DecayFunction string
type ChallengeDifficulty string

const (
	ChallengeStateVisible ChallengeState = "visible"
	ChallengeStateHidden  ChallengeState = "hidden"

	// STANDARD 题分值固定为 Points；DYNAMIC 题分值随解题数衰减，缓存在 Value
	TypeStandard ChallengeType = "STANDARD"
	TypeDynamic  ChallengeType = "DYNAMIC"

	DecayStatic DecayFunction = "static"
	DecayLog    DecayFunction = "log"
	DecayExp    DecayFunction = "exp"
	DecayLinear DecayFunction = "linear"

	ChallengeDifficultyEasy   ChallengeDifficulty = "easy"
	ChallengeDifficultyMedium ChallengeDifficulty = "medium"
	ChallengeDifficultyHard   ChallengeDifficulty = "hard"
)

type Challenge struct {
	ID            uint32              `gorm:"primarykey"`
	ChallengeName string              `gorm:"size:100;unique;not null"`
	CategoryID    uint32              `gorm:"not null"`
	Category      Category            `gorm:"foreignKey:CategoryID"`
	Author        string              `gorm:"size:50;not null"`
	Description   string              `gorm:"type:text;not null"`
	Hint          string              `gorm:"type:text"`
	State         ChallengeState      `gorm:"type:enum('visible','hidden');default:'hidden'"`
	Type          ChallengeType       `gorm:"type:enum('STANDARD','DYNAMIC');not null;default:'STANDARD'"`
	Function      DecayFunction       `gorm:"type:enum('static','log','exp','linear');not null;default:'static'"`
	Flag          string              `gorm:"size:255"`
	DockerImage   string              `gorm:"size:255"`
	DockerPorts   string              `gorm:"size:50"`
	Difficulty    ChallengeDifficulty `gorm:"type:enum('easy','medium','hard');default:'medium'"`
	// 不变式：0 <= Minimum <= Points；DYNAMIC 题每次重算后 Minimum <= *Value <= Points
	Points      int          `gorm:"not null"`
	Minimum     int          `gorm:"not null"`
	Decay       float64      `gorm:"default:0"`
	Value       *int         `gorm:"default:null"`
	Attachments []Attachment `gorm:"foreignKey:ChallengeID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Challenge) TableName() string {
	return "astra_challenge"
}

// EffectiveValue 当前生效分值：STANDARD 题恒为 Points，DYNAMIC 题取缓存的 Value，
// 未计算过时回退到 Points
func (ch *Challenge) EffectiveValue() int {
	if ch.Type == TypeDynamic && ch.Value != nil {
		return *ch.Value
	}
	return ch.Points
}
