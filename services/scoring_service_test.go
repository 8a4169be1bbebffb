// file: services/scoring_service_test.go
package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstraCTF/models"
	"AstraCTF/utils"
)

func intPtr(v int) *int { return &v }

func TestComputeValue(t *testing.T) {
	tests := []struct {
		name       string
		params     ScoringParams
		solveCount int64
		want       int
	}{
		{
			name: "linear decay",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayLinear,
				Points: 300, Minimum: 100, Decay: 10,
			},
			solveCount: 5,
			want:       250,
		},
		{
			name: "exp decay",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayExp,
				Points: 300, Minimum: 50, Decay: 0.9,
			},
			solveCount: 3,
			want:       218,
		},
		{
			name: "log decay clamped to minimum",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayLog,
				Points: 100, Minimum: 80, Decay: 50,
			},
			solveCount: 10,
			want:       80,
		},
		{
			name: "standard challenge ignores solve count",
			params: ScoringParams{
				Type: models.TypeStandard, Function: models.DecayLinear,
				Points: 150, Minimum: 0, Decay: 10,
			},
			solveCount: 9999,
			want:       150,
		},
		{
			name: "static function passes current value through",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayStatic,
				Points: 200, Minimum: 50, Decay: 10, Value: intPtr(170),
			},
			solveCount: 42,
			want:       170,
		},
		{
			name: "zero solves yields full points",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayLinear,
				Points: 500, Minimum: 100, Decay: 25,
			},
			solveCount: 0,
			want:       500,
		},
		{
			name: "exp decay above one is treated as no decay",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayExp,
				Points: 300, Minimum: 50, Decay: 1.7,
			},
			solveCount: 10,
			want:       300,
		},
		{
			name: "negative linear decay sanitized to zero",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayLinear,
				Points: 300, Minimum: 100, Decay: -10,
			},
			solveCount: 5,
			want:       300,
		},
		{
			name: "negative minimum treated as zero",
			params: ScoringParams{
				Type: models.TypeDynamic, Function: models.DecayLinear,
				Points: 100, Minimum: -5, Decay: 30,
			},
			solveCount: 10,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeValue(tt.params, tt.solveCount))
		})
	}
}

func TestComputeValueNaNDecayFallsBack(t *testing.T) {
	p := ScoringParams{
		Type: models.TypeDynamic, Function: models.DecayExp,
		Points: 300, Minimum: 50, Decay: math.NaN(), Value: intPtr(240),
	}
	// NaN decay 按 1（不衰减）处理，结果仍在 [minimum, points] 之内
	got := ComputeValue(p, 7)
	assert.Equal(t, 300, got)

	p.Function = models.DecayLinear
	assert.Equal(t, 300, ComputeValue(p, 7))
}

func TestComputeValueClampInvariant(t *testing.T) {
	functions := []models.DecayFunction{models.DecayLog, models.DecayExp, models.DecayLinear}
	decays := []float64{0, 0.5, 1, 10, 100}
	counts := []int64{0, 1, 10, 1000}

	for _, fn := range functions {
		for _, decay := range decays {
			for _, count := range counts {
				p := ScoringParams{
					Type: models.TypeDynamic, Function: fn,
					Points: 500, Minimum: 100, Decay: decay,
				}
				got := ComputeValue(p, count)
				assert.GreaterOrEqual(t, got, 100, "fn=%s decay=%v count=%d", fn, decay, count)
				assert.LessOrEqual(t, got, 500, "fn=%s decay=%v count=%d", fn, decay, count)
			}
		}
	}
}

func TestSyncValueWritesOnChange(t *testing.T) {
	store := newFakeStore()
	store.params[1] = &ScoringParams{
		Type: models.TypeDynamic, Function: models.DecayLinear,
		Points: 300, Minimum: 100, Decay: 10,
	}
	store.solveCount[1] = 5

	svc := NewScoringService(store)

	result, err := svc.SyncValue(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, result.Previous)
	require.NotNil(t, result.Updated)
	assert.Equal(t, 250, *result.Updated)
	assert.Equal(t, 1, store.setValueCalls)
}

func TestSyncValueIdempotentConvergence(t *testing.T) {
	store := newFakeStore()
	store.params[1] = &ScoringParams{
		Type: models.TypeDynamic, Function: models.DecayExp,
		Points: 300, Minimum: 50, Decay: 0.9,
	}
	store.solveCount[1] = 3

	svc := NewScoringService(store)

	first, err := svc.SyncValue(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, first.Updated)
	assert.Equal(t, 218, *first.Updated)
	assert.Equal(t, 1, store.setValueCalls)

	// 解题数不变，第二次调用必须收敛且不再写库
	second, err := svc.SyncValue(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, second.Previous)
	require.NotNil(t, second.Updated)
	assert.Equal(t, *second.Previous, *second.Updated)
	assert.Equal(t, 218, *second.Updated)
	assert.Equal(t, 1, store.setValueCalls)
}

func TestSyncValueStandardChallengeNoWrite(t *testing.T) {
	store := newFakeStore()
	store.params[2] = &ScoringParams{
		Type: models.TypeStandard, Function: models.DecayStatic,
		Points: 150, Minimum: 0,
	}
	store.solveCount[2] = 100

	svc := NewScoringService(store)

	result, err := svc.SyncValue(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, result.Updated)
	assert.Equal(t, 0, store.setValueCalls)
}

func TestSyncValueMissingChallenge(t *testing.T) {
	svc := NewScoringService(newFakeStore())

	_, err := svc.SyncValue(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, 404, utils.AsAPIError(err).Status)
}

func TestPreviewValueDoesNotWrite(t *testing.T) {
	store := newFakeStore()
	store.params[1] = &ScoringParams{
		Type: models.TypeDynamic, Function: models.DecayLog,
		Points: 100, Minimum: 80, Decay: 50, Value: intPtr(100),
	}
	store.solveCount[1] = 10

	svc := NewScoringService(store)

	preview, err := svc.PreviewValue(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, preview.Current)
	assert.Equal(t, 100, *preview.Current)
	assert.Equal(t, 80, preview.Computed)
	assert.Equal(t, 0, store.setValueCalls)
}
