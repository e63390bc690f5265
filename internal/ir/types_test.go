package ir

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBound_ZeroValueIsUnset(t *testing.T) {
	var b Bound
	assert.False(t, b.IsSet())
	assert.Nil(t, b.Ptr())
	assert.Equal(t, "unset", b.String())
}

func TestBoundFrom(t *testing.T) {
	v := 25.0
	legacy := LegacyUnset
	zero := 0.0

	assert.False(t, BoundFrom(nil).IsSet())
	assert.False(t, BoundFrom(&legacy).IsSet(), "legacy sentinel means no bound")

	b := BoundFrom(&v)
	require.True(t, b.IsSet())
	assert.Equal(t, 25.0, b.Value())

	z := BoundFrom(&zero)
	assert.True(t, z.IsSet(), "zero is a real threshold")
}

func TestBound_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Bound `json:"a"`
		B Bound `json:"b"`
	}{A: NewBound(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(data))
}

func TestParseMuonType(t *testing.T) {
	for i, name := range muonTypeNames {
		got, err := ParseMuonType(name)
		require.NoError(t, err)
		assert.Equal(t, MuonType(i), got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseMuonType("Tagged")
	assert.Error(t, err)
}

func TestParseQuality_OrderIsTightestFirst(t *testing.T) {
	tight, err := ParseQuality("Tight")
	require.NoError(t, err)
	veryLoose, err := ParseQuality("VeryLoose")
	require.NoError(t, err)
	assert.Less(t, int(tight), int(veryLoose))

	_, err = ParseQuality("Ultra")
	assert.Error(t, err)
}

func TestTrack_D0Significance(t *testing.T) {
	tr := &Track{D0: -0.3, D0Variance: 0.01}
	assert.InDelta(t, 3.0, tr.D0Significance(), 1e-9)

	bad := &Track{D0: 0.1}
	assert.True(t, math.IsInf(bad.D0Significance(), 1))
}

func TestTrack_Z0SinTheta(t *testing.T) {
	tr := &Track{Z0: 1.0, Vz: 0.5, Theta: math.Pi / 2}
	assert.InDelta(t, 1.0, tr.Z0SinTheta(Vec3{Z: 0.5}), 1e-9)
}

func TestObject_Decorations(t *testing.T) {
	obj := &Object{}

	_, ok := obj.Decoration(DecorPassSel)
	assert.False(t, ok)

	obj.Decorate(DecorPassSel, int(OutcomeNotEvaluated))
	obj.DecorateBool(DecorIsIsolated, true)

	out, ok := obj.Outcome()
	require.True(t, ok)
	assert.Equal(t, OutcomeNotEvaluated, out)

	decor := obj.Decorations()
	assert.Equal(t, map[string]int{DecorPassSel: -1, DecorIsIsolated: 1}, decor)

	decor["mutated"] = 1
	_, ok = obj.Decoration("mutated")
	assert.False(t, ok, "Decorations returns a copy")
}

func TestObject_HasAuthor(t *testing.T) {
	obj := &Object{Author: AuthorAmbiguous}
	assert.True(t, obj.HasAuthor(AuthorElectron|AuthorAmbiguous))
	assert.False(t, obj.HasAuthor(AuthorElectron))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "pass", OutcomePass.String())
	assert.Equal(t, "fail", OutcomeFail.String())
	assert.Equal(t, "not-evaluated", OutcomeNotEvaluated.String())
}
