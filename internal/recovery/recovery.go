// Package recovery scores candidate billet lengths for an extrusion run and
// picks the one that recovers the most material while leaving enough scrap
// margin for trimming.
//
// Everything here is a pure function of its inputs and the process constants
// in pkg/constants. Nothing here logs or does I/O.
package recovery

import (
	"math"
	"sort"

	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/mathutil"
)

// ProcessParameters describes one die and cut setup.
type ProcessParameters struct {
	CutLength      float64 `json:"cutLength" yaml:"cutLength" mapstructure:"cutLength"`                // m
	NumHoles       int     `json:"numHoles" yaml:"numHoles" mapstructure:"numHoles"`                   // die cavities
	KgPerMeter     float64 `json:"kgPerMeter" yaml:"kgPerMeter" mapstructure:"kgPerMeter"`             // per strand
	CausticEtching bool    `json:"causticEtching" yaml:"causticEtching" mapstructure:"causticEtching"` // selects rounding mode
	ButtWeight     float64 `json:"buttWeight" yaml:"buttWeight" mapstructure:"buttWeight"`             // kg
}

// Validate checks the parameters before any computation.
func (p ProcessParameters) Validate() error {
	switch {
	case !(p.CutLength > 0) || math.IsInf(p.CutLength, 0):
		return invalid("cutLength", p.CutLength, "must be a positive finite length in meters")
	case p.NumHoles < 1:
		return invalid("numHoles", float64(p.NumHoles), "must be at least 1")
	case !(p.KgPerMeter > 0) || math.IsInf(p.KgPerMeter, 0):
		return invalid("kgPerMeter", p.KgPerMeter, "must be a positive finite mass per meter")
	case !(p.ButtWeight >= constants.MinButtWeight) || math.IsInf(p.ButtWeight, 0):
		return invalid("buttWeight", p.ButtWeight, "must be at least 1 kg")
	}
	return nil
}

// CandidateResult is the evaluation of one billet length.
type CandidateResult struct {
	BilletLength    float64 `json:"billetLength"`    // cm
	BilletWeight    float64 `json:"billetWeight"`    // kg
	ExtrusionLength float64 `json:"extrusionLength"` // m per strand
	RawPieces       float64 `json:"rawPieces"`
	PiecesPerBillet int     `json:"piecesPerBillet"`
	MarginLength    float64 `json:"marginLength"` // m
	OutputWeight    float64 `json:"outputWeight"` // kg
	RecoveryPercent float64 `json:"recoveryPercent"`
	MarginEligible  bool    `json:"marginEligible"`
	Optimal         bool    `json:"optimal"`
}

// Result holds the ranked evaluation of one optimization run.
type Result struct {
	Params ProcessParameters `json:"params"`
	// Candidates passed the feasibility filter, ranked by descending recovery.
	Candidates []CandidateResult `json:"candidates"`
	// Excluded lists billet lengths dropped by either feasibility filter
	// (extrusion over the line limit, or a butt heavier than the billet), in
	// candidate order.
	Excluded []float64 `json:"excluded"`
	// Best is a copy of the optimal candidate, nil when none qualified.
	Best *CandidateResult `json:"optimum"`
}

// Found reports whether an optimum was selected.
func (r *Result) Found() bool {
	return r != nil && r.Best != nil
}

// Optimum returns the selected candidate or ErrNoQualifyingCandidate.
func (r *Result) Optimum() (CandidateResult, error) {
	if !r.Found() {
		return CandidateResult{}, ErrNoQualifyingCandidate
	}
	return *r.Best, nil
}

// Evaluate scores a single billet length. The second return value is false
// when the candidate fails the feasibility filter: the extrusion would be
// longer than the downstream line accepts, or the butt outweighs the billet.
func Evaluate(params ProcessParameters, billetLength float64) (CandidateResult, bool) {
	billetWeight := billetLength * constants.ConversionFactor
	extrusionLength := (billetWeight - params.ButtWeight) / (float64(params.NumHoles) * params.KgPerMeter)
	if extrusionLength > constants.MaxExtrusionLength || extrusionLength < 0 {
		return CandidateResult{}, false
	}

	rawPieces := extrusionLength / params.CutLength
	pieces := PiecesPerBillet(rawPieces, params.CausticEtching)
	// floor of a quotient that rounded up to a whole number can leave -1e-16
	marginLength := mathutil.ClampNonNegative(extrusionLength - float64(pieces)*params.CutLength)
	outputWeight := float64(pieces) * params.CutLength * float64(params.NumHoles) * params.KgPerMeter
	recovery := mathutil.CalculatePercentage(outputWeight, billetWeight)

	return CandidateResult{
		BilletLength:    billetLength,
		BilletWeight:    billetWeight,
		ExtrusionLength: extrusionLength,
		RawPieces:       rawPieces,
		PiecesPerBillet: pieces,
		MarginLength:    marginLength,
		OutputWeight:    outputWeight,
		RecoveryPercent: recovery,
		MarginEligible:  marginLength > constants.MarginThreshold*extrusionLength,
	}, true
}

// Optimize evaluates every candidate billet length and selects the one with
// the highest recovery among those whose margin exceeds the threshold. Ties
// go to the earliest candidate. A run where nothing qualifies is not an
// error: the returned Result has a nil Best and still lists every feasible
// candidate.
func Optimize(params ProcessParameters, candidates []float64) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}

	result := &Result{
		Params:     params,
		Candidates: make([]CandidateResult, 0, len(candidates)),
		Excluded:   []float64{},
	}

	best := -1
	maxRecovery := 0.0
	for _, billetLength := range candidates {
		candidate, ok := Evaluate(params, billetLength)
		if !ok {
			result.Excluded = append(result.Excluded, billetLength)
			continue
		}
		if candidate.MarginEligible && candidate.RecoveryPercent > maxRecovery {
			maxRecovery = candidate.RecoveryPercent
			best = len(result.Candidates)
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	if best >= 0 {
		result.Candidates[best].Optimal = true
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].RecoveryPercent > result.Candidates[j].RecoveryPercent
	})

	for i := range result.Candidates {
		if result.Candidates[i].Optimal {
			optimum := result.Candidates[i]
			result.Best = &optimum
			break
		}
	}

	return result, nil
}

func validateCandidates(candidates []float64) error {
	if len(candidates) == 0 {
		return invalid("candidates", 0, "at least one billet length is required")
	}
	if len(candidates) > constants.MaxCandidates {
		return invalid("candidates", float64(len(candidates)), "too many billet lengths")
	}
	for _, c := range candidates {
		if !(c > 0) || math.IsInf(c, 0) {
			return invalid("billetLength", c, "must be a positive finite length in centimeters")
		}
	}
	return nil
}
