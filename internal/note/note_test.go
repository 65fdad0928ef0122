package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSemitoneRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		semitone := rapid.Uint8().Draw(t, "semitone")
		n := FromSemitone(semitone)
		require.Equal(t, semitone, n.Semitone())
		require.Equal(t, n, FindNearest(n.Freq()))
	})
}

func TestEnharmonicEquality(t *testing.T) {
	cs, err := New(C, Sharp, 4)
	require.NoError(t, err)
	db, err := New(D, Flat, 4)
	require.NoError(t, err)
	assert.True(t, cs.Eq(db))

	ds, _ := New(D, Sharp, 3)
	eb, _ := New(E, Flat, 3)
	assert.True(t, ds.Eq(eb))

	fs, _ := New(F, Sharp, 2)
	gb, _ := New(G, Flat, 2)
	assert.True(t, fs.Eq(gb))

	gs, _ := New(G, Sharp, 5)
	ab, _ := New(A, Flat, 5)
	assert.True(t, gs.Eq(ab))

	as, _ := New(A, Sharp, 1)
	bb, _ := New(B, Flat, 1)
	assert.True(t, as.Eq(bb))
}

func TestTheoreticalEdgeCases(t *testing.T) {
	eSharp, err := New(E, Sharp, 3)
	require.NoError(t, err)
	f, _ := New(F, Natural, 3)
	assert.True(t, eSharp.Eq(f))

	fFlat, err := New(F, Flat, 3)
	require.NoError(t, err)
	e, _ := New(E, Natural, 3)
	assert.True(t, fFlat.Eq(e))

	bSharp, err := New(B, Sharp, 3)
	require.NoError(t, err)
	c4, _ := New(C, Natural, 4)
	assert.True(t, bSharp.Eq(c4))

	cFlat, err := New(C, Flat, 4)
	require.NoError(t, err)
	b3, _ := New(B, Natural, 3)
	assert.True(t, cFlat.Eq(b3))

	_, err = New(C, Flat, 0)
	assert.Error(t, err)
}

func TestFindNearestLiterals(t *testing.T) {
	a4, _ := New(A, Natural, 4)
	assert.True(t, FindNearest(441.0).Eq(a4))

	aSharp4, _ := New(A, Sharp, 4)
	assert.True(t, FindNearest(466.2).Eq(aSharp4))

	c0, _ := New(C, Natural, 0)
	assert.True(t, FindNearest(0.0).Eq(c0))
}

func TestParseRoundTrip(t *testing.T) {
	n, err := Parse("c4s")
	require.NoError(t, err)
	cs4, _ := New(C, Sharp, 4)
	assert.True(t, n.Eq(cs4))

	n, err = Parse("C4#")
	require.NoError(t, err)
	db4, _ := New(D, Flat, 4)
	assert.True(t, n.Eq(db4))
	assert.Equal(t, "C4#", n.String())
}
