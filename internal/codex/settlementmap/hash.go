package settlementmap

import (
	"math"
	"strconv"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// BuildingHash computes the order-sensitive fingerprint of a settlement's
// building set. Stored hashes were produced by a 32-bit rolling hash, so the
// arithmetic here reproduces those semantics exactly: the shift operand is
// truncated to a signed 32-bit integer, the running value is kept exact
// between folds, and the value is truncated back to 32 bits after each
// building. The result is rendered in signed base-36; an empty set hashes
// to "0".
//
// Reordering an identical building set changes the hash. That is accepted:
// wholesale fetches return consistent ordering, and a spurious mismatch only
// costs one redundant cache rewrite.
func BuildingHash(buildings []storage.SettlementBuilding) string {
	hash := int64(len(buildings))
	for _, building := range buildings {
		hash = fold(hash, building.BuildingID)
		hash = fold(hash, int64(math.Floor(building.X)))
		hash = fold(hash, int64(math.Floor(building.Z)))
		hash = fold(hash, flagTerm(building.IsDestroyed, 1))
		hash = fold(hash, flagTerm(building.IsDamaged, 2))
		hash = fold(hash, flagTerm(building.IsActive, 4))
		hash = int64(int32(hash))
	}
	return strconv.FormatInt(hash, 36)
}

func fold(hash, term int64) int64 {
	return int64(int32(hash)<<5) - hash + term
}

func flagTerm(set bool, weight int64) int64 {
	if set {
		return weight
	}
	return 0
}
