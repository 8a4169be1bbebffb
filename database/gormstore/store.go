// file: database/gormstore/store.go
package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"AstraCTF/models"
	"AstraCTF/services"
)

// GormStore 用 GORM 实现 services.Store。计分核心只认接口，
// 这里是唯一碰真实数据库的实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetChallengeScoringParams(ctx context.Context, challengeID uint32) (*services.ScoringParams, error) {
	var ch models.Challenge
	err := s.db.WithContext(ctx).
		Select("id", "type", "function", "points", "minimum", "decay", "value").
		Take(&ch, challengeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &services.ScoringParams{
		Type:     ch.Type,
		Function: ch.Function,
		Points:   ch.Points,
		Minimum:  ch.Minimum,
		Decay:    ch.Decay,
		Value:    ch.Value,
	}, nil
}

func (s *GormStore) CountSolves(ctx context.Context, challengeID uint32) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Solve{}).
		Where("challenge_id = ?", challengeID).Count(&count).Error
	return count, err
}

func (s *GormStore) SetChallengeValue(ctx context.Context, challengeID uint32, value int) error {
	return s.db.WithContext(ctx).Model(&models.Challenge{}).
		Where("id = ?", challengeID).Update("value", value).Error
}

func (s *GormStore) GetChallengeForAttempt(ctx context.Context, challengeID uint32) (*services.ChallengeAttemptInfo, error) {
	var ch models.Challenge
	err := s.db.WithContext(ctx).
		Select("id", "challenge_name", "type", "state", "flag").
		Take(&ch, challengeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &services.ChallengeAttemptInfo{
		ID:            ch.ID,
		ChallengeName: ch.ChallengeName,
		Type:          ch.Type,
		State:         ch.State,
		Flag:          ch.Flag,
	}, nil
}

func (s *GormStore) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	// (user, challenge) 已有记录时 DoNothing，保持首次提交结果
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
		DoNothing: true,
	}).Create(sub).Error
}

func (s *GormStore) InsertSolveIfAbsent(ctx context.Context, userID, challengeID uint32, teamID *uint32) (bool, error) {
	solve := models.Solve{
		UserID:      userID,
		ChallengeID: challengeID,
		TeamID:      teamID,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
		DoNothing: true,
	}).Create(&solve)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) GetRunningInstanceFlag(ctx context.Context, challengeID, teamID uint32) (string, error) {
	var inst models.Instance
	err := s.db.WithContext(ctx).
		Select("instance_flag").
		Where("challenge_id = ? AND team_id = ? AND state = ?", challengeID, teamID, models.InstanceStateRunning).
		Take(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return inst.InstanceFlag, nil
}

func (s *GormStore) GetEffectiveChallengeValue(ctx context.Context, challengeID uint32) (int, error) {
	var ch models.Challenge
	err := s.db.WithContext(ctx).
		Select("id", "type", "points", "value").
		Take(&ch, challengeID).Error
	if err != nil {
		return 0, err
	}
	return ch.EffectiveValue(), nil
}

func (s *GormStore) SumSolveValues(ctx context.Context, userID uint32) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE WHEN c.type = 'DYNAMIC' THEN COALESCE(c.value, c.points) ELSE c.points END), 0)
		FROM astra_solve s
		JOIN astra_challenge c ON s.challenge_id = c.id
		WHERE s.user_id = ?`, userID).Scan(&total).Error
	return total, err
}

func (s *GormStore) SumAwards(ctx context.Context, userID uint32) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Raw(
		"SELECT COALESCE(SUM(value), 0) FROM astra_award WHERE user_id = ?", userID,
	).Scan(&total).Error
	return total, err
}
