package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Setor Jovem", "setor-jovem"},
		{"portuguese accents", "Ministério de Música", "ministerio-de-musica"},
		{"cedilla and tilde", "Coração São João", "coracao-sao-joao"},
		{"punctuation collapses", "Grupo (Casais) - 2ª Turma", "grupo-casais-2-turma"},
		{"surrounding whitespace", "  Acolhida  ", "acolhida"},
		{"dash runs", "a --- b", "a-b"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}
