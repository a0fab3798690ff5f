package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSingleCandidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical name", "Adamawa", "Adamawa"},
		{"lowercase name", "kano", "Kano"},
		{"name with state suffix", "Kano State", "Kano"},
		{"uppercase state suffix", "ADAMAWA STATE", "Adamawa"},
		{"short code", "AD", "Adamawa"},
		{"lowercase short code", "kn", "Kano"},
		{"two word state", "Akwa Ibom", "Akwa Ibom"},
		{"fct alias", "fct", "Federal Capital Territory"},
		{"abuja alias", "Abuja", "Federal Capital Territory"},
		{"abuja fct alias", "abuja fct", "Federal Capital Territory"},
		{"full fct name", "Federal Capital Territory", "Federal Capital Territory"},
		{"surrounding whitespace", "  Yobe  ", "Yobe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Name)
		})
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	// First resolvable candidate wins even when a later one would also match.
	r, err := Resolve("", "not a state", "Adamawa", "Kano")
	require.NoError(t, err)
	assert.Equal(t, "Adamawa", r.Name)
}

func TestResolveUnresolved(t *testing.T) {
	_, err := Resolve("", "Atlantis", "XX")
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = Resolve()
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestAliases(t *testing.T) {
	kano, err := Resolve("KN")
	require.NoError(t, err)
	assert.Contains(t, kano.Aliases(), "Kano State")

	assert.Contains(t, FCT.Aliases(), "Abuja")
}

func TestAllStatesResolveByOwnAliases(t *testing.T) {
	for _, s := range All() {
		for _, alias := range s.Aliases() {
			r, err := Resolve(alias)
			require.NoError(t, err, "alias %q of %s", alias, s.Name)
			assert.Equal(t, s.Code, r.Code)
		}
	}
	assert.Len(t, All(), 37)
}
