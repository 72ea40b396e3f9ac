package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := Default()
	is.Equal(c.BoardDim, 19)
	is.Equal(c.CandidateRadius, 2)
	is.Equal(c.TTMemFraction, 0.25)
	is.True(c.Threads >= 1)
	is.Equal(c.Debug, false)
}

func TestEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("GOBANG_BOARD_DIM", "15")
	t.Setenv("GOBANG_THREADS", "3")
	t.Setenv("GOBANG_DEBUG", "true")

	c := Default()
	is.Equal(c.BoardDim, 15)
	is.Equal(c.Threads, 3)
	is.Equal(c.Debug, true)
}
