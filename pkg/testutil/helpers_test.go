package testutil

import (
	"testing"

	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
)

func TestFindCandidate(t *testing.T) {
	results := []recovery.CandidateResult{
		{BilletLength: 58, RecoveryPercent: 93.07},
		{BilletLength: 70, RecoveryPercent: 77.12, Optimal: true},
		{BilletLength: 80, RecoveryPercent: 67.48},
	}

	tests := []struct {
		name             string
		billetLength     float64
		expectFound      bool
		expectedRecovery float64
	}{
		{name: "first entry", billetLength: 58, expectFound: true, expectedRecovery: 93.07},
		{name: "middle entry", billetLength: 70, expectFound: true, expectedRecovery: 77.12},
		{name: "last entry", billetLength: 80, expectFound: true, expectedRecovery: 67.48},
		{name: "absent length", billetLength: 63, expectFound: false},
		{name: "zero length", billetLength: 0, expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindCandidate(results, tt.billetLength)

			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindCandidate(%v) expected nil, got %+v", tt.billetLength, *result)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindCandidate(%v) expected a candidate, got nil", tt.billetLength)
			}
			if result.RecoveryPercent != tt.expectedRecovery {
				t.Errorf("FindCandidate(%v) recovery = %v, expected %v",
					tt.billetLength, result.RecoveryPercent, tt.expectedRecovery)
			}
		})
	}
}

func TestFindCandidateEmptyResults(t *testing.T) {
	if result := FindCandidate(nil, 70); result != nil {
		t.Errorf("FindCandidate() with nil results should return nil, got %v", result)
	}
	if result := FindCandidate([]recovery.CandidateResult{}, 70); result != nil {
		t.Errorf("FindCandidate() with empty results should return nil, got %v", result)
	}
}

func TestFindCandidateReturnsPointer(t *testing.T) {
	results := []recovery.CandidateResult{{BilletLength: 70, PiecesPerBillet: 4}}

	result := FindCandidate(results, 70)
	if result == nil {
		t.Fatal("FindCandidate() returned nil")
	}
	result.PiecesPerBillet = 9
	if results[0].PiecesPerBillet != 9 {
		t.Error("FindCandidate() should return a pointer into the slice")
	}
}

func TestFindOptimal(t *testing.T) {
	results := []recovery.CandidateResult{
		{BilletLength: 58},
		{BilletLength: 70, Optimal: true},
	}
	if got := FindOptimal(results); got == nil || got.BilletLength != 70 {
		t.Errorf("FindOptimal() = %v, expected the 70 cm candidate", got)
	}
	if got := FindOptimal(results[:1]); got != nil {
		t.Errorf("FindOptimal() expected nil without an optimal candidate, got %v", got)
	}
}

func TestReferenceParamsSelectKnownOptimum(t *testing.T) {
	params := ReferenceParams()
	if err := params.Validate(); err != nil {
		t.Fatalf("ReferenceParams() should be valid: %v", err)
	}

	result, err := recovery.Optimize(params, constants.CandidateLengths)
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}
	best := FindOptimal(result.Candidates)
	if best == nil || best.BilletLength != 70 || best.PiecesPerBillet != 4 {
		t.Errorf("expected the 70 cm optimum with 4 pieces, got %+v", best)
	}
}
