package shortcode_test

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"urlshortener/internal/shortcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// TestGenerator_Generate проверяет длину и алфавит кодов
func TestGenerator_Generate(t *testing.T) {
	gen := shortcode.NewRandom()

	for i := 0; i < 100; i++ {
		code := gen.Generate()
		require.Len(t, code, shortcode.Length)
		assert.Regexp(t, codePattern, code)
	}
}

// TestGenerator_Deterministic проверяет, что одинаковый seed даёт
// одинаковую последовательность кодов
func TestGenerator_Deterministic(t *testing.T) {
	first := shortcode.New(rand.NewPCG(1, 2))
	second := shortcode.New(rand.NewPCG(1, 2))

	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Generate(), second.Generate())
	}
}

// TestGenerator_DifferentSeeds проверяет, что разные seed дают разные коды
func TestGenerator_DifferentSeeds(t *testing.T) {
	first := shortcode.New(rand.NewPCG(1, 2))
	second := shortcode.New(rand.NewPCG(3, 4))

	assert.NotEqual(t, first.Generate(), second.Generate())
}
