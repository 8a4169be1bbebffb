// file: services/attempt_service.go
package services

import (
	"context"

	"AstraCTF/models"
	"AstraCTF/utils"
)

type AttemptInput struct {
	UserID      uint32
	TeamID      *uint32
	ChallengeID uint32
	Flag        string
	IPAddress   string
}

// AttemptResult 判题结果：答错时 NewScore 为 nil，序列化时省略。
// NewSolve 表示本次是否真正新建了解题行，重复答对为 false，
// 调用方据此抑制解题动态、排行榜重建等附带动作，不下发给客户端。
type AttemptResult struct {
	Correct  bool   `json:"correct"`
	Message  string `json:"message"`
	NewScore *int   `json:"newScore,omitempty"`
	NewSolve bool   `json:"-"`
}

// AttemptService 判题逻辑：比对 Flag、幂等落提交与解题记录、触发分值同步
type AttemptService struct {
	store   Store
	scoring *ScoringService
}

func NewAttemptService(store Store, scoring *ScoringService) *AttemptService {
	return &AttemptService{store: store, scoring: scoring}
}

// Attempt 处理一次 Flag 提交。答错不是错误，返回 correct:false；
// 重复答对同一题不落重复解题行，也不重复计分。
func (s *AttemptService) Attempt(ctx context.Context, in AttemptInput) (AttemptResult, error) {
	ch, err := s.store.GetChallengeForAttempt(ctx, in.ChallengeID)
	if err != nil {
		return AttemptResult{}, err
	}
	if ch == nil || ch.State != models.ChallengeStateVisible {
		return AttemptResult{}, utils.ErrNotFound("题目不存在")
	}

	// 精确字符串比对；实例题再比对本队运行实例的动态 Flag
	correct := ch.Flag != "" && in.Flag == ch.Flag
	if !correct && in.TeamID != nil {
		instFlag, err := s.store.GetRunningInstanceFlag(ctx, in.ChallengeID, *in.TeamID)
		if err != nil {
			return AttemptResult{}, err
		}
		correct = instFlag != "" && in.Flag == instFlag
	}

	status := models.SubmissionIncorrect
	if correct {
		status = models.SubmissionCorrect
	}
	if err := s.store.RecordSubmission(ctx, &models.Submission{
		UserID:        in.UserID,
		ChallengeID:   in.ChallengeID,
		TeamID:        in.TeamID,
		SubmittedFlag: in.Flag,
		Status:        status,
		IPAddress:     in.IPAddress,
	}); err != nil {
		return AttemptResult{}, err
	}

	if !correct {
		return AttemptResult{Correct: false, Message: "Incorrect flag."}, nil
	}

	// 先落解题行再同步分值，保证重算时把这次解题数进去
	created, err := s.store.InsertSolveIfAbsent(ctx, in.UserID, in.ChallengeID, in.TeamID)
	if err != nil {
		return AttemptResult{}, err
	}
	if ch.Type == models.TypeDynamic {
		if _, err := s.scoring.SyncValue(ctx, in.ChallengeID); err != nil {
			return AttemptResult{}, err
		}
	}

	solveSum, err := s.store.SumSolveValues(ctx, in.UserID)
	if err != nil {
		return AttemptResult{}, err
	}
	awardSum, err := s.store.SumAwards(ctx, in.UserID)
	if err != nil {
		return AttemptResult{}, err
	}
	total := solveSum + awardSum

	return AttemptResult{Correct: true, Message: "Correct flag!", NewScore: &total, NewSolve: created}, nil
}
