package jobs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListGuard_LatestWins(t *testing.T) {
	var g ListGuard

	first := g.Begin()
	second := g.Begin()

	// The older request lost the race; only the newest may commit.
	require.False(t, g.Commit(first))
	require.True(t, g.Commit(second))
}

func TestListGuard_SequentialRequestsAllCommit(t *testing.T) {
	var g ListGuard

	for i := 0; i < 5; i++ {
		seq := g.Begin()
		require.True(t, g.Commit(seq))
	}
}
