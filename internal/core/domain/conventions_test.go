package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConventions_Validation(t *testing.T) {
	t.Run("empty directories", func(t *testing.T) {
		_, err := NewConventions(nil, 50)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("duplicate directory", func(t *testing.T) {
		_, err := NewConventions([]CorpusDirectory{
			{Path: "_ordinances", Kind: KindOrdinance},
			{Path: "_ordinances", Kind: KindResolution},
		}, 50)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewConventions([]CorpusDirectory{{Path: "x", Kind: Kind("minutes")}}, 50)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("pivot out of range", func(t *testing.T) {
		_, err := NewConventions(DefaultCorpusDirectories(), 120)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestConventions_DirectoriesIsACopy(t *testing.T) {
	c := DefaultConventions()
	dirs := c.Directories()
	dirs[0].Path = "mutated"

	assert.Equal(t, "_ordinances", c.Directories()[0].Path)
}

func TestConventions_ExpandYear(t *testing.T) {
	c := DefaultConventions()

	assert.Equal(t, 1989, c.ExpandYear(89))
	assert.Equal(t, 1974, c.ExpandYear(74))
	assert.Equal(t, 1951, c.ExpandYear(51))
	assert.Equal(t, 2050, c.ExpandYear(50))
	assert.Equal(t, 2018, c.ExpandYear(18))
	assert.Equal(t, 2000, c.ExpandYear(0))
	assert.Equal(t, 2018, c.ExpandYear(2018))
}

func TestConventions_Grammars(t *testing.T) {
	c := DefaultConventions()

	ord, ok := c.Grammar(KindOrdinance)
	require.True(t, ok)
	assert.True(t, ord.MatchString("1989-Ord-54-89C-Land-Development.md"))
	assert.True(t, ord.MatchString("2001-Ord-#12-Fees.md"))
	assert.False(t, ord.MatchString("2018-Res-259-Budget.md"))

	res, ok := c.Grammar(KindResolution)
	require.True(t, ok)
	assert.True(t, res.MatchString("2018-Res-259-Budget.md"))

	interp, ok := c.Grammar(KindInterpretation)
	require.True(t, ok)
	assert.True(t, interp.MatchString("1998-03-02-RE-5-080-Home-Occupations.md"))
	assert.True(t, interp.MatchString("2004-10-11-RE-2-040h-Signs.md"))
	assert.False(t, interp.MatchString("1998-RE-5-080.md"))

	_, ok = c.Grammar(KindOther)
	assert.False(t, ok)
}
