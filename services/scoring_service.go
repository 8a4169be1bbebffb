// file: services/scoring_service.go
package services

import (
	"context"
	"math"

	"AstraCTF/models"
	"AstraCTF/utils"
)

// ComputeValue 按衰减函数计算 DYNAMIC 题的当前分值。纯函数，不做任何 I/O，
// 配置异常时退回当前值而不是报错：错误的 decay 配置绝不能打断用户交 Flag。
func ComputeValue(p ScoringParams, solveCount int64) int {
	current := p.Points
	if p.Value != nil {
		current = *p.Value
	}

	// STANDARD 题与 static 函数：原样透传，不衰减
	if p.Type != models.TypeDynamic || p.Function == models.DecayStatic {
		return current
	}

	points := float64(p.Points)
	minimum := float64(p.Minimum)
	if math.IsNaN(minimum) || math.IsInf(minimum, 0) || minimum < 0 {
		minimum = 0
	}
	if minimum > points {
		minimum = points
	}

	var raw float64
	switch p.Function {
	case models.DecayLog:
		decay := sanitizeDecay(p.Decay)
		raw = math.Floor(points - decay*math.Log2(float64(solveCount)+1))
	case models.DecayExp:
		// exp 的 decay 是保留比例，限制在 [0,1]，非法值按 1（不衰减）处理
		decay := p.Decay
		if math.IsNaN(decay) || math.IsInf(decay, 0) {
			decay = 1
		}
		if decay < 0 {
			decay = 0
		}
		if decay > 1 {
			decay = 1
		}
		raw = math.Floor(points * math.Pow(decay, float64(solveCount)))
	case models.DecayLinear:
		decay := sanitizeDecay(p.Decay)
		raw = math.Floor(points - decay*float64(solveCount))
	default:
		return current
	}

	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return current
	}
	if raw < minimum {
		raw = minimum
	}
	if raw > points {
		raw = points
	}
	return int(raw)
}

func sanitizeDecay(decay float64) float64 {
	if math.IsNaN(decay) || math.IsInf(decay, 0) || decay < 0 {
		return 0
	}
	return decay
}

// SyncResult 同步前后的分值，供接口返回 before/after 预览
type SyncResult struct {
	Previous *int `json:"previous"`
	Updated  *int `json:"updated"`
}

// ScoringService 分值同步器：重算 DYNAMIC 题分值并在变化时落库
type ScoringService struct {
	store Store
}

func NewScoringService(store Store) *ScoringService {
	return &ScoringService{store: store}
}

// SyncValue 重算指定题目的分值。分值未变化时不产生任何写入，
// 因此解题数不变的情况下连续调用收敛到固定值。
func (s *ScoringService) SyncValue(ctx context.Context, challengeID uint32) (SyncResult, error) {
	p, err := s.store.GetChallengeScoringParams(ctx, challengeID)
	if err != nil {
		return SyncResult{}, err
	}
	if p == nil {
		return SyncResult{}, utils.ErrNotFound("题目不存在")
	}

	if p.Type != models.TypeDynamic {
		return SyncResult{Previous: p.Value, Updated: p.Value}, nil
	}

	count, err := s.store.CountSolves(ctx, challengeID)
	if err != nil {
		return SyncResult{}, err
	}

	computed := ComputeValue(*p, count)
	if p.Value != nil && *p.Value == computed {
		return SyncResult{Previous: p.Value, Updated: p.Value}, nil
	}

	if err := s.store.SetChallengeValue(ctx, challengeID, computed); err != nil {
		return SyncResult{}, err
	}
	return SyncResult{Previous: p.Value, Updated: &computed}, nil
}

// ValuePreview 当前缓存值与按最新解题数算出的值，只读不落库
type ValuePreview struct {
	Current  *int `json:"current"`
	Computed int  `json:"computed"`
}

// PreviewValue 供管理端预览：不写库地计算一次分值
func (s *ScoringService) PreviewValue(ctx context.Context, challengeID uint32) (ValuePreview, error) {
	p, err := s.store.GetChallengeScoringParams(ctx, challengeID)
	if err != nil {
		return ValuePreview{}, err
	}
	if p == nil {
		return ValuePreview{}, utils.ErrNotFound("题目不存在")
	}

	count, err := s.store.CountSolves(ctx, challengeID)
	if err != nil {
		return ValuePreview{}, err
	}
	return ValuePreview{Current: p.Value, Computed: ComputeValue(*p, count)}, nil
}
