// file: models/instance.go
package models

import (
	"time"
)

type InstanceState string

const (
	InstanceStateRunning   InstanceState = "running"
	InstanceStateDestroyed InstanceState = "destroyed"
)

// Instance 每队独立的题目环境（Docker Swarm Service），带动态 Flag 与到期时间
type Instance struct {
	ID            uint32        `gorm:"primarykey"`
	ServiceID     string        `gorm:"size:64;not null"`
	ChallengeID   uint32        `gorm:"not null"`
	TeamID        uint32        `gorm:"not null"`
	ServiceName   string        `gorm:"size:100;not null"`
	DockerImage   string        `gorm:"size:255;not null"`
	DockerPorts   string        `gorm:"size:100;not null"`
	InstanceFlag  string        `gorm:"size:255;not null"`
	State         InstanceState `gorm:"type:enum('running','destroyed');default:'running'"`
	StartTime     time.Time     `gorm:"default:CURRENT_TIMESTAMP"`
	EndTime       time.Time     `gorm:"not null"`
	ExtendedCount uint          `gorm:"default:0"`
}

func (Instance) TableName() string {
	return "astra_instance"
}
