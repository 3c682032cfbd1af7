package services

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrRankCountMismatch  = errors.New("duplicate ranks in submitted approval chain")
	ErrRankSequenceGap    = errors.New("approval level ranks must form a contiguous sequence starting at 1")
	ErrNoApproverAssigned = errors.New("approval chain must carry at least one approver")
)

// ChainLevelInput is one submitted level of a chain definition.
type ChainLevelInput struct {
	Rank        int         `json:"rank" binding:"required,min=1"`
	ApproverIDs []uuid.UUID `json:"approverIds"`
}

// ValidateChain checks that a submitted chain definition is well-formed
// and returns a rank-ordered copy. Submission order is irrelevant; only
// the final rank set is significant.
//
// The distinct-count check runs before the sequence check on purpose: a
// set like {1,1,3} has a valid-looking sorted prefix and a naive 1..N scan
// over the raw slice would accept it.
func ValidateChain(levels []ChainLevelInput) ([]ChainLevelInput, error) {
	ranks := make(map[int]struct{}, len(levels))
	for _, l := range levels {
		ranks[l.Rank] = struct{}{}
	}

	if len(ranks) != len(levels) {
		return nil, ErrRankCountMismatch
	}

	distinct := make([]int, 0, len(ranks))
	for rank := range ranks {
		distinct = append(distinct, rank)
	}
	sort.Ints(distinct)

	for i, rank := range distinct {
		if rank != i+1 {
			return nil, ErrRankSequenceGap
		}
	}

	hasApprover := false
	for _, l := range levels {
		if len(l.ApproverIDs) > 0 {
			hasApprover = true
			break
		}
	}
	if !hasApprover {
		return nil, ErrNoApproverAssigned
	}

	ordered := make([]ChainLevelInput, len(levels))
	copy(ordered, levels)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })
	return ordered, nil
}

// RankedLevel pairs a level id with its rank for renumbering.
type RankedLevel struct {
	LevelID uuid.UUID
	Rank    int
}

// RenumberAfterRemoval computes the new ranks after removing the level at
// removedRank, closing the gap so the remaining ranks are again 1..N-1
// with relative order preserved. Pure; the store applies the result
// transactionally.
func RenumberAfterRemoval(levels []RankedLevel, removedRank int) []RankedLevel {
	out := make([]RankedLevel, 0, len(levels))
	for _, l := range levels {
		if l.Rank == removedRank {
			continue
		}
		next := l
		if next.Rank > removedRank {
			next.Rank--
		}
		out = append(out, next)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// RanksToShiftForInsert returns the levels whose rank must move up by one
// to open a slot at position. Levels below position are untouched.
func RanksToShiftForInsert(levels []RankedLevel, position int) []RankedLevel {
	var shifted []RankedLevel
	for _, l := range levels {
		if l.Rank >= position {
			shifted = append(shifted, RankedLevel{LevelID: l.LevelID, Rank: l.Rank + 1})
		}
	}
	// Shift top-down so no two rows ever hold the same rank mid-edit.
	sort.Slice(shifted, func(i, j int) bool { return shifted[i].Rank > shifted[j].Rank })
	return shifted
}
