package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Autodraw – Anker Power Bank", "autodraw-anker-power-bank"},
		{"Santa's Cash Dash", "santas-cash-dash"},
		{"  £500 Cash!  ", "500-cash"},
		{"PS5 -- Slim_Edition", "ps5-slimedition"},
		{"---Hello---World---", "hello-world"},
		{"Tab\tand\nnewline", "tab-and-newline"},
		{"Non\u00a0breaking\u2003space", "non-breaking-space"},
		{"\ufeffBOM prefixed", "bom-prefixed"},
		{"Next\u0085line", "nextline"},
		{"Café Crème", "caf-crme"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}

func TestSlugifyShape(t *testing.T) {
	for _, title := range []string{
		"Autodraw – Anker Power Bank",
		"Win a £10,000 Tax-Free Cash Prize!",
		"  ÉLITE   gaming_PC  2025 ",
	} {
		slug := Slugify(title)
		assert.Regexp(t, slugShape, slug, title)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	for _, title := range []string{"Santa's Cash Dash", "iPhone 16 Pro Max", "a-b-c", "x"} {
		once := Slugify(title)
		assert.Equal(t, once, Slugify(once))
	}
}
