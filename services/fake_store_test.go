// file: services/fake_store_test.go
package services

import (
	"context"

	"AstraCTF/models"
)

type solveKey struct {
	userID      uint32
	challengeID uint32
}

// fakeStore 内存版 Store 实现，只服务于测试
type fakeStore struct {
	params     map[uint32]*ScoringParams
	solveCount map[uint32]int64

	challenges    map[uint32]*ChallengeAttemptInfo
	instanceFlags map[uint32]string // challengeID -> flag
	solves        map[solveKey]bool
	submissions   []models.Submission

	solveSums map[uint32]int
	awardSums map[uint32]int

	setValueCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		params:        make(map[uint32]*ScoringParams),
		solveCount:    make(map[uint32]int64),
		challenges:    make(map[uint32]*ChallengeAttemptInfo),
		instanceFlags: make(map[uint32]string),
		solves:        make(map[solveKey]bool),
		solveSums:     make(map[uint32]int),
		awardSums:     make(map[uint32]int),
	}
}

func (f *fakeStore) GetChallengeScoringParams(_ context.Context, challengeID uint32) (*ScoringParams, error) {
	p, ok := f.params[challengeID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CountSolves(_ context.Context, challengeID uint32) (int64, error) {
	return f.solveCount[challengeID], nil
}

func (f *fakeStore) SetChallengeValue(_ context.Context, challengeID uint32, value int) error {
	f.setValueCalls++
	if p, ok := f.params[challengeID]; ok {
		v := value
		p.Value = &v
	}
	return nil
}

func (f *fakeStore) GetChallengeForAttempt(_ context.Context, challengeID uint32) (*ChallengeAttemptInfo, error) {
	ch, ok := f.challenges[challengeID]
	if !ok {
		return nil, nil
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeStore) RecordSubmission(_ context.Context, sub *models.Submission) error {
	for _, existing := range f.submissions {
		if existing.UserID == sub.UserID && existing.ChallengeID == sub.ChallengeID {
			return nil
		}
	}
	f.submissions = append(f.submissions, *sub)
	return nil
}

func (f *fakeStore) InsertSolveIfAbsent(_ context.Context, userID, challengeID uint32, _ *uint32) (bool, error) {
	key := solveKey{userID: userID, challengeID: challengeID}
	if f.solves[key] {
		return false, nil
	}
	f.solves[key] = true
	f.solveCount[challengeID]++
	return true, nil
}

func (f *fakeStore) GetRunningInstanceFlag(_ context.Context, challengeID, _ uint32) (string, error) {
	return f.instanceFlags[challengeID], nil
}

func (f *fakeStore) GetEffectiveChallengeValue(_ context.Context, challengeID uint32) (int, error) {
	p, ok := f.params[challengeID]
	if !ok {
		return 0, nil
	}
	if p.Type == models.TypeDynamic && p.Value != nil {
		return *p.Value, nil
	}
	return p.Points, nil
}

func (f *fakeStore) SumSolveValues(_ context.Context, userID uint32) (int, error) {
	return f.solveSums[userID], nil
}

func (f *fakeStore) SumAwards(_ context.Context, userID uint32) (int, error) {
	return f.awardSums[userID], nil
}
