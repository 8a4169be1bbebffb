// file: services/store.go
package services

import (
	"context"

	"AstraCTF/models"
)

// ScoringParams 计分引擎需要的题目字段投影
type ScoringParams struct {
	Type     models.ChallengeType
	Function models.DecayFunction
	Points   int
	Minimum  int
	Decay    float64
	Value    *int
}

// ChallengeAttemptInfo 判题需要的题目字段投影
type ChallengeAttemptInfo struct {
	ID            uint32
	ChallengeName string
	Type          models.ChallengeType
	State         models.ChallengeState
	Flag          string
}

// Store 计分引擎与判题逻辑依赖的存储接口。由 database.GormStore 实现，
// 测试中用假实现替换，避免核心逻辑耦合全局 DB 句柄。
type Store interface {
	// GetChallengeScoringParams 题目不存在时返回 (nil, nil)
	GetChallengeScoringParams(ctx context.Context, challengeID uint32) (*ScoringParams, error)
	CountSolves(ctx context.Context, challengeID uint32) (int64, error)
	SetChallengeValue(ctx context.Context, challengeID uint32, value int) error

	// GetChallengeForAttempt 题目不存在时返回 (nil, nil)
	GetChallengeForAttempt(ctx context.Context, challengeID uint32) (*ChallengeAttemptInfo, error)
	// RecordSubmission 幂等写入提交记录：同一 (user, challenge) 已有记录时不再落新行
	RecordSubmission(ctx context.Context, sub *models.Submission) error
	// InsertSolveIfAbsent 幂等写入解题记录，返回本次是否真正新建。
	// 唯一约束冲突视为 created=false，不作为错误返回。
	InsertSolveIfAbsent(ctx context.Context, userID, challengeID uint32, teamID *uint32) (created bool, err error)
	// GetRunningInstanceFlag 查询该队伍此题正在运行实例的动态 Flag，无实例返回 ""
	GetRunningInstanceFlag(ctx context.Context, challengeID, teamID uint32) (string, error)

	GetEffectiveChallengeValue(ctx context.Context, challengeID uint32) (int, error)
	// SumSolveValues 用户全部解题的生效分值之和（DYNAMIC 取 value，STANDARD 取 points）
	SumSolveValues(ctx context.Context, userID uint32) (int, error)
	SumAwards(ctx context.Context, userID uint32) (int, error)
}
