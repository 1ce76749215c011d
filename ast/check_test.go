package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheck struct {
	name string
	err  error
	ran  *[]string
}

func (c stubCheck) Name() string { return c.name }

func (c stubCheck) Check(prog *Program) error {
	*c.ran = append(*c.ran, c.name)
	return c.err
}

func TestCheckChainRunsInOrder(t *testing.T) {
	var ran []string
	chain := CheckChain{
		stubCheck{name: "first", ran: &ran},
		stubCheck{name: "second", ran: &ran},
	}
	require.NoError(t, chain.Run(&Program{}))
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestCheckChainStopsAtFirstError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	chain := CheckChain{
		stubCheck{name: "first", err: boom, ran: &ran},
		stubCheck{name: "second", ran: &ran},
	}
	assert.ErrorIs(t, chain.Run(&Program{}), boom)
	assert.Equal(t, []string{"first"}, ran)
}
