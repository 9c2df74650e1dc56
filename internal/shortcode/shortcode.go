// Package shortcode генерирует короткие коды для ссылок.
package shortcode

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Length — длина короткого кода
const Length = 8

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator выдаёт случайные коды из 8 символов [A-Za-z0-9].
// Источник случайности внедряется, чтобы тесты могли получить
// детерминированную последовательность. Коллизии с уже существующими
// кодами не проверяются.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// NewRandom создаёт генератор, засеянный из crypto/rand.
func NewRandom() *Generator {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(err)
	}
	return New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}

func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := make([]byte, Length)
	for i := range result {
		result[i] = charset[g.rnd.IntN(len(charset))]
	}
	return string(result)
}
