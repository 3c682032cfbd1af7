package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func level(rank int, approvers int) ChainLevelInput {
	l := ChainLevelInput{Rank: rank}
	for i := 0; i < approvers; i++ {
		l.ApproverIDs = append(l.ApproverIDs, uuid.New())
	}
	return l
}

func TestValidateChain_OrdersLevelsByRank(t *testing.T) {
	// Submission order must not matter; only the rank set does.
	ordered, err := ValidateChain([]ChainLevelInput{
		level(3, 1),
		level(1, 2),
		level(2, 1),
	})
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, 1, ordered[0].Rank)
	assert.Equal(t, 2, ordered[1].Rank)
	assert.Equal(t, 3, ordered[2].Rank)
}

func TestValidateChain_DuplicateRanks(t *testing.T) {
	// {1, 1, 3} must fail on the duplicate before the gap: a naive scan
	// over the sorted raw slice would see 1, then accept the second 1.
	_, err := ValidateChain([]ChainLevelInput{
		level(1, 1),
		level(1, 1),
		level(3, 1),
	})
	assert.ErrorIs(t, err, ErrRankCountMismatch)
}

func TestValidateChain_RankGap(t *testing.T) {
	_, err := ValidateChain([]ChainLevelInput{
		level(1, 1),
		level(3, 1),
	})
	assert.ErrorIs(t, err, ErrRankSequenceGap)
}

func TestValidateChain_NotStartingAtOne(t *testing.T) {
	_, err := ValidateChain([]ChainLevelInput{
		level(2, 1),
		level(3, 1),
	})
	assert.ErrorIs(t, err, ErrRankSequenceGap)
}

func TestValidateChain_NoApprovers(t *testing.T) {
	_, err := ValidateChain([]ChainLevelInput{
		level(1, 0),
		level(2, 0),
	})
	assert.ErrorIs(t, err, ErrNoApproverAssigned)
}

func TestValidateChain_Empty(t *testing.T) {
	_, err := ValidateChain(nil)
	assert.ErrorIs(t, err, ErrNoApproverAssigned)
}

func TestValidateChain_SingleLevelOneApprover(t *testing.T) {
	ordered, err := ValidateChain([]ChainLevelInput{level(1, 1)})
	require.NoError(t, err)
	assert.Len(t, ordered, 1)
}

func TestRenumberAfterRemoval_ClosesGap(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	levels := []RankedLevel{
		{LevelID: ids[0], Rank: 1},
		{LevelID: ids[1], Rank: 2},
		{LevelID: ids[2], Rank: 3},
		{LevelID: ids[3], Rank: 4},
	}

	// Removing rank 2 of four pulls 3 and 4 down; 1 is untouched.
	out := RenumberAfterRemoval(levels, 2)
	require.Len(t, out, 3)
	assert.Equal(t, ids[0], out[0].LevelID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, ids[2], out[1].LevelID)
	assert.Equal(t, 2, out[1].Rank)
	assert.Equal(t, ids[3], out[2].LevelID)
	assert.Equal(t, 3, out[2].Rank)
}

func TestRenumberAfterRemoval_LastRank(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	out := RenumberAfterRemoval([]RankedLevel{
		{LevelID: ids[0], Rank: 1},
		{LevelID: ids[1], Rank: 2},
	}, 2)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Rank)
}

func TestRanksToShiftForInsert(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	levels := []RankedLevel{
		{LevelID: ids[0], Rank: 1},
		{LevelID: ids[1], Rank: 2},
		{LevelID: ids[2], Rank: 3},
	}

	shifted := RanksToShiftForInsert(levels, 2)
	require.Len(t, shifted, 2)
	// Highest rank moves first so no two rows share a rank mid-edit.
	assert.Equal(t, ids[2], shifted[0].LevelID)
	assert.Equal(t, 4, shifted[0].Rank)
	assert.Equal(t, ids[1], shifted[1].LevelID)
	assert.Equal(t, 3, shifted[1].Rank)
}

func TestRanksToShiftForInsert_Append(t *testing.T) {
	shifted := RanksToShiftForInsert([]RankedLevel{
		{LevelID: uuid.New(), Rank: 1},
	}, 2)
	assert.Empty(t, shifted)
}
