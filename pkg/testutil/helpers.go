// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/billet-recovery/internal/recovery"
)

// ReferenceParams returns the process setup used across tests: 2.5 m cuts,
// four holes, 1.5 kg/m, no etching and the default 4 kg butt.
func ReferenceParams() recovery.ProcessParameters {
	return recovery.ProcessParameters{
		CutLength:  2.5,
		NumHoles:   4,
		KgPerMeter: 1.5,
		ButtWeight: 4,
	}
}

// FindCandidate finds a candidate by billet length in the results slice.
// Returns a pointer to the candidate if found, nil otherwise.
func FindCandidate(results []recovery.CandidateResult, billetLength float64) *recovery.CandidateResult {
	for i := range results {
		if results[i].BilletLength == billetLength {
			return &results[i]
		}
	}
	return nil
}

// FindOptimal returns the candidate flagged optimal, nil when none is.
func FindOptimal(results []recovery.CandidateResult) *recovery.CandidateResult {
	for i := range results {
		if results[i].Optimal {
			return &results[i]
		}
	}
	return nil
}
