package turnorder

import (
	"fmt"
	"testing"

	"warfront/internal/domain/seeded"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign_EvenTeamsNeverAdjacent(t *testing.T) {
	ids := []string{"p0", "p1", "p2", "p3"}
	teamOf := map[string]string{"p0": "A", "p2": "A", "p1": "B", "p3": "B"}
	for i := 0; i < 100; i++ {
		got := Assign(ids, teamOf, seeded.New(fmt.Sprintf("seed-%d", i), 0))
		require.ElementsMatch(t, ids, got)
		for j := 1; j < len(got); j++ {
			require.NotEqual(t, teamOf[got[j-1]], teamOf[got[j]], "seed-%d order %v", i, got)
		}
	}
}

func TestAssign_SingleTeamEqualsPlainShuffle(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	teamOf := map[string]string{"a": "T", "b": "T", "c": "T", "d": "T", "e": "T"}

	got := Assign(ids, teamOf, seeded.New("solo", 3))
	want := seeded.Shuffle(seeded.New("solo", 3), ids)
	assert.Equal(t, want, got)
}

func TestAssign_NoTeamModeEqualsPlainShuffle(t *testing.T) {
	ids := []string{"a", "b", "c"}
	assert.Equal(t, seeded.Shuffle(seeded.New("x", 0), ids), Assign(ids, nil, seeded.New("x", 0)))
	assert.Equal(t, seeded.Shuffle(seeded.New("x", 0), ids), Assign(ids, map[string]string{}, seeded.New("x", 0)))
}

func TestAssign_ThreeEqualTeamsNeverAdjacent(t *testing.T) {
	ids := []string{"a1", "a2", "b1", "b2", "c1", "c2"}
	teamOf := map[string]string{"a1": "A", "a2": "A", "b1": "B", "b2": "B", "c1": "C", "c2": "C"}
	for i := 0; i < 50; i++ {
		got := Assign(ids, teamOf, seeded.New(fmt.Sprintf("three-%d", i), 0))
		for j := 1; j < len(got); j++ {
			require.NotEqual(t, teamOf[got[j-1]], teamOf[got[j]], "order %v", got)
		}
	}
}

func TestAssign_SkewedTeamsStillPermutation(t *testing.T) {
	ids := []string{"a1", "a2", "a3", "a4", "b1"}
	teamOf := map[string]string{"a1": "A", "a2": "A", "a3": "A", "a4": "A", "b1": "B"}
	got := Assign(ids, teamOf, seeded.New("skew", 0))
	assert.ElementsMatch(t, ids, got)
}

func TestAssign_Deterministic(t *testing.T) {
	ids := []string{"p0", "p1", "p2", "p3", "p4", "p5"}
	teamOf := map[string]string{"p0": "A", "p1": "B", "p2": "C", "p3": "A", "p4": "B", "p5": "C"}
	assert.Equal(t, Assign(ids, teamOf, seeded.New("same", 0)), Assign(ids, teamOf, seeded.New("same", 0)))
}
