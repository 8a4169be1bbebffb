// file: services/attempt_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstraCTF/models"
	"AstraCTF/utils"
)

func newAttemptFixture() (*fakeStore, *AttemptService) {
	store := newFakeStore()
	store.challenges[1] = &ChallengeAttemptInfo{
		ID:            1,
		ChallengeName: "baby-pwn",
		Type:          models.TypeStandard,
		State:         models.ChallengeStateVisible,
		Flag:          "astra{hello}",
	}
	return store, NewAttemptService(store, NewScoringService(store))
}

func TestAttemptCorrectFlag(t *testing.T) {
	store, svc := newAttemptFixture()
	store.solveSums[7] = 150
	store.awardSums[7] = 20

	result, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 7, ChallengeID: 1, Flag: "astra{hello}", IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.True(t, result.NewSolve)
	assert.Equal(t, "Correct flag!", result.Message)
	require.NotNil(t, result.NewScore)
	assert.Equal(t, 170, *result.NewScore)

	require.Len(t, store.submissions, 1)
	assert.Equal(t, models.SubmissionCorrect, store.submissions[0].Status)
	assert.Equal(t, "10.0.0.1", store.submissions[0].IPAddress)
	assert.True(t, store.solves[solveKey{userID: 7, challengeID: 1}])
}

func TestAttemptIncorrectFlag(t *testing.T) {
	store, svc := newAttemptFixture()

	result, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 7, ChallengeID: 1, Flag: "astra{wrong}",
	})
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, "Incorrect flag.", result.Message)
	assert.Nil(t, result.NewScore)

	// 答错也要留下提交记录
	require.Len(t, store.submissions, 1)
	assert.Equal(t, models.SubmissionIncorrect, store.submissions[0].Status)
	assert.False(t, store.solves[solveKey{userID: 7, challengeID: 1}])
}

func TestAttemptRepeatedCorrectIsIdempotent(t *testing.T) {
	store, svc := newAttemptFixture()

	in := AttemptInput{UserID: 7, ChallengeID: 1, Flag: "astra{hello}"}

	first, err := svc.Attempt(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, first.Correct)
	assert.True(t, first.NewSolve)

	// 重复答对不报错、不落重复解题行，NewSolve 为 false，
	// 调用方据此跳过解题动态和排行榜重建
	second, err := svc.Attempt(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.Correct)
	assert.False(t, second.NewSolve)

	solveRows := 0
	for range store.solves {
		solveRows++
	}
	assert.Equal(t, 1, solveRows)
	assert.Len(t, store.submissions, 1)
}

func TestAttemptMissingChallenge(t *testing.T) {
	_, svc := newAttemptFixture()

	_, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 7, ChallengeID: 999, Flag: "astra{hello}",
	})
	require.Error(t, err)
	assert.Equal(t, 404, utils.AsAPIError(err).Status)
}

func TestAttemptHiddenChallenge(t *testing.T) {
	store, svc := newAttemptFixture()
	store.challenges[1].State = models.ChallengeStateHidden

	_, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 7, ChallengeID: 1, Flag: "astra{hello}",
	})
	require.Error(t, err)
	assert.Equal(t, 404, utils.AsAPIError(err).Status)
}

func TestAttemptInstanceFlagFallback(t *testing.T) {
	store, svc := newAttemptFixture()
	store.challenges[1].Flag = ""
	store.instanceFlags[1] = "astra{per-team-flag}"
	teamID := uint32(3)

	result, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 7, TeamID: &teamID, ChallengeID: 1, Flag: "astra{per-team-flag}",
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)

	// 没有队伍就没有实例 Flag 可比对
	wrong, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 8, ChallengeID: 1, Flag: "astra{per-team-flag}",
	})
	require.NoError(t, err)
	assert.False(t, wrong.Correct)
}

func TestAttemptDynamicChallengeSyncsValue(t *testing.T) {
	store, svc := newAttemptFixture()
	store.challenges[1].Type = models.TypeDynamic
	store.params[1] = &ScoringParams{
		Type: models.TypeDynamic, Function: models.DecayLinear,
		Points: 300, Minimum: 100, Decay: 10,
	}

	result, err := svc.Attempt(context.Background(), AttemptInput{
		UserID: 7, ChallengeID: 1, Flag: "astra{hello}",
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)

	// 解题后触发一次分值重算：count=1 → 290
	assert.Equal(t, 1, store.setValueCalls)
	require.NotNil(t, store.params[1].Value)
	assert.Equal(t, 290, *store.params[1].Value)

	// 解题动态拿到的生效分值就是刚同步完的缓存值
	effective, err := store.GetEffectiveChallengeValue(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 290, effective)
}
