package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fightdex/fightdex/pkg/identity"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Movsar Evloev", "MOVSAR EVLOEV"},
		{"already upper", "MOVSAR EVLOEV", "MOVSAR EVLOEV"},
		{"diacritics", "José Aldo", "JOSE ALDO"},
		{"diacritics and suffix", "José  Aldo Jr.", "JOSE ALDO"},
		{"suffix without dot", "Antonio Silva Jr", "ANTONIO SILVA"},
		{"generational numeral", "Frank Mir III", "FRANK MIR"},
		{"apostrophe", "Sean O'Malley", "SEAN O MALLEY"},
		{"curly apostrophe", "Sean O’Malley", "SEAN O MALLEY"},
		{"hyphen", "Kai Kara-France", "KAI KARA FRANCE"},
		{"whitespace runs", "  Jan   Blachowicz  ", "JAN BLACHOWICZ"},
		{"abbreviated first name keeps dot", "M. Evloev", "M. EVLOEV"},
		{"empty", "", ""},
		{"suffix only is kept", "Jr.", "JR."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.Normalize(tt.in))
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	// Two true matches from different sources must collapse to one key.
	assert.Equal(t, identity.Normalize("José  Aldo Jr."), identity.Normalize("JOSE ALDO"))
	assert.Equal(t, identity.Normalize("Sean O'Malley"), identity.Normalize("SEAN O’MALLEY"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"José Aldo Jr.",
		"Sean O'Malley",
		"Kai Kara-France",
		"Jan Błachowicz",
		"Weili Zhang",
		"  spaced   out  name  ",
		"",
	}
	for _, in := range inputs {
		once := identity.Normalize(in)
		assert.Equal(t, once, identity.Normalize(once), "input %q", in)
	}
}
