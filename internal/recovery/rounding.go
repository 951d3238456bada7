package recovery

import "math"

// RoundingMode selects how the raw piece count is turned into whole pieces.
type RoundingMode int

const (
	// RoundingFloor keeps every whole piece; used without caustic etching.
	RoundingFloor RoundingMode = 1
	// RoundingEtched gives up one extra piece to the etching allowance.
	RoundingEtched RoundingMode = 2
)

// ModeFor returns the rounding mode for the caustic etching setting.
func ModeFor(causticEtching bool) RoundingMode {
	if causticEtching {
		return RoundingEtched
	}
	return RoundingFloor
}

func (m RoundingMode) String() string {
	switch m {
	case RoundingFloor:
		return "floor"
	case RoundingEtched:
		return "floor-1"
	default:
		return "unknown"
	}
}

// PiecesPerBillet converts a raw piece count into the number of finished
// pieces cut per strand.
//
// A raw count strictly between 1 and 2 always yields one piece, whatever the
// mode. Otherwise RoundingFloor floors and RoundingEtched floors and drops one
// more piece. The result is never negative, and counts too large for an int
// (a vanishingly small cut length) saturate at math.MaxInt.
func PiecesPerBillet(rawPieces float64, causticEtching bool) int {
	var pieces float64
	switch {
	case rawPieces > 1 && rawPieces < 2:
		pieces = 1
	case ModeFor(causticEtching) == RoundingFloor:
		pieces = math.Floor(rawPieces)
	default:
		pieces = math.Floor(rawPieces) - 1
	}
	switch {
	case pieces < 0 || math.IsNaN(pieces):
		return 0
	case pieces >= float64(math.MaxInt):
		return math.MaxInt
	}
	return int(pieces)
}
