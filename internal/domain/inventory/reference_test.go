package inventory_test

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/inventory"
)

var fixedDay = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func TestReferenceGenerator_Formato(t *testing.T) {
	gen := inventory.NewReferenceGenerator("mov", 6).WithClock(func() time.Time { return fixedDay })

	ref, err := gen.Next()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^MOV-20260314-[A-Z0-9]{6}$`), ref)
}

func TestReferenceGenerator_ValoresPorDefecto(t *testing.T) {
	gen := inventory.NewReferenceGenerator("", 0).WithClock(func() time.Time { return fixedDay })

	ref, err := gen.Next()
	require.NoError(t, err)
	assert.Regexp(t, `^MOV-20260314-[A-Z0-9]{6}$`, ref)
}

// Con la misma entropía el sufijo es determinista; bytes fuera del rango aceptado se descartan.
func TestReferenceGenerator_EntropiaControlada(t *testing.T) {
	// 0 -> 'A', 255 se rechaza, 1 -> 'B', 35 -> '9', 36 -> 'A'; el resto no se consume
	src := bytes.NewReader([]byte{0, 255, 1, 35, 36, 37, 2, 3})
	gen := inventory.NewReferenceGenerator("MOV", 4).
		WithClock(func() time.Time { return fixedDay }).
		WithEntropy(src)

	ref, err := gen.Next()
	require.NoError(t, err)
	assert.Equal(t, "MOV-20260314-AB9A", ref)
}

func TestReferenceGenerator_EntropiaAgotada(t *testing.T) {
	gen := inventory.NewReferenceGenerator("MOV", 6).WithEntropy(bytes.NewReader([]byte{1, 2}))

	_, err := gen.Next()
	assert.Error(t, err)
}

func TestReferenceGenerator_SinColisionesEnUnDia(t *testing.T) {
	gen := inventory.NewReferenceGenerator("MOV", 6).WithClock(func() time.Time { return fixedDay })
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		ref, err := gen.Next()
		require.NoError(t, err)
		_, dup := seen[ref]
		require.False(t, dup, "referencia repetida: %s", ref)
		seen[ref] = struct{}{}
	}
}
