package news

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepresentative_Longest(t *testing.T) {
	g := Group{
		art("1", "KT 알뜰폰"),
		art("2", "KT 알뜰폰 요금제 출시"),
		art("3", "KT 알뜰폰 요금"),
	}

	rep, err := Representative(g)

	require.NoError(t, err)
	assert.Equal(t, "2", rep.Link)
}

func TestRepresentative_TieGoesToFirst(t *testing.T) {
	g := Group{art("1", "abcd"), art("2", "wxyz")}

	rep, err := Representative(g)

	require.NoError(t, err)
	assert.Equal(t, "1", rep.Link)
}

func TestRepresentative_OnlyBoldTagsStripped(t *testing.T) {
	// Bold tags do not count; entities and spacing do.
	g := Group{
		art("1", "<b>알뜰폰</b> 요금"),
		art("2", "알뜰폰  요금"),
		art("3", "&quot;알뜰폰"),
	}

	rep, err := Representative(g)

	require.NoError(t, err)
	assert.Equal(t, "3", rep.Link)
}

func TestRepresentative_CountsCharactersNotBytes(t *testing.T) {
	g := Group{art("1", "알뜰폰"), art("2", "abcd")}

	rep, err := Representative(g)

	require.NoError(t, err)
	assert.Equal(t, "2", rep.Link)
}

func TestRepresentative_EmptyGroup(t *testing.T) {
	_, err := Representative(nil)

	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Panics(t, func() { MustRepresentative(Group{}) })
}
