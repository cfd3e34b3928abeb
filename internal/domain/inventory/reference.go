package inventory

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	// DefaultReferencePrefix prefijo de los números de referencia de movimientos.
	DefaultReferencePrefix = "MOV"
	// DefaultReferenceSuffixLen longitud del sufijo aleatorio.
	DefaultReferenceSuffixLen = 6

	referenceAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceSeparator = "-"
	referenceDate      = "20060102"
)

// ReferenceGenerator genera números de referencia legibles: PREFIJO-AAAAMMDD-SUFIJO.
// No consulta la BD: la unicidad la garantiza la restricción única al insertar y el
// llamador reintenta con un número nuevo ante colisión.
type ReferenceGenerator struct {
	prefix    string
	suffixLen int
	now       func() time.Time
	entropy   io.Reader
}

// NewReferenceGenerator construye el generador. Valores vacíos o no positivos usan los por defecto.
func NewReferenceGenerator(prefix string, suffixLen int) *ReferenceGenerator {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultReferencePrefix
	}
	if suffixLen <= 0 {
		suffixLen = DefaultReferenceSuffixLen
	}
	return &ReferenceGenerator{
		prefix:    strings.ToUpper(prefix),
		suffixLen: suffixLen,
		now:       time.Now,
		entropy:   rand.Reader,
	}
}

// WithClock reemplaza el reloj (tests).
func (g *ReferenceGenerator) WithClock(now func() time.Time) *ReferenceGenerator {
	g.now = now
	return g
}

// WithEntropy reemplaza la fuente aleatoria (tests).
func (g *ReferenceGenerator) WithEntropy(r io.Reader) *ReferenceGenerator {
	g.entropy = r
	return g
}

// Next devuelve un nuevo número de referencia.
func (g *ReferenceGenerator) Next() (string, error) {
	suffix, err := g.randomSuffix()
	if err != nil {
		return "", fmt.Errorf("generar sufijo de referencia: %w", err)
	}
	return strings.Join([]string{g.prefix, g.now().Format(referenceDate), suffix}, referenceSeparator), nil
}

// randomSuffix usa muestreo por rechazo para no sesgar el alfabeto.
func (g *ReferenceGenerator) randomSuffix() (string, error) {
	const limit = 256 - 256%len(referenceAlphabet)
	out := make([]byte, 0, g.suffixLen)
	buf := make([]byte, g.suffixLen)
	for len(out) < g.suffixLen {
		if _, err := io.ReadFull(g.entropy, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, referenceAlphabet[int(b)%len(referenceAlphabet)])
			if len(out) == g.suffixLen {
				break
			}
		}
	}
	return string(out), nil
}
