package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower-cases and trims", in: "  Chicken Breast ", want: "chicken breast"},
		{name: "collapses interior whitespace", in: "chicken   breast", want: "chicken breast"},
		{name: "strips punctuation", in: "chicken, boneless & skinless", want: "chicken boneless skinless"},
		{name: "drops parentheticals", in: "chicken breast (about 2 lbs)", want: "chicken breast"},
		{name: "strips diacritics", in: "jalapeño purée", want: "jalapeno puree"},
		{name: "singularizes trailing s", in: "carrots", want: "carrot"},
		{name: "singularizes ies", in: "berries", want: "berry"},
		{name: "singularizes oes", in: "tomatoes", want: "tomato"},
		{name: "singularizes ches", in: "peaches", want: "peach"},
		{name: "keeps ss endings", in: "swiss chard", want: "swiss chard"},
		{name: "keeps short words", in: "peas", want: "pea"},
		{name: "keeps digits", in: "2 eggs", want: "2 egg"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
		{name: "punctuation only", in: "--", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

// Normalization keys the reservation ledger, so applying it twice must give
// the same answer as applying it once.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		" Chicken  Breast ",
		"Tomatoes (vine ripened)",
		"BERRIES",
		"jalapeños",
		"dishes and boxes",
		"roses", "buses", "molasses", "couscous",
		"2 large eggs",
		"peas",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeCaseAndWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, Normalize("chicken breast"), Normalize(" Chicken  Breast "))
	assert.Equal(t, Normalize("creme fraiche"), Normalize("Crème Fraîche"))
}
