package temp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLabelUnique(t *testing.T) {
	a := NewAllocator()
	seen := map[Label]bool{}
	for i := 0; i < 100; i++ {
		l := a.NewLabel()
		require.False(t, seen[l], "duplicate label %s", l)
		seen[l] = true
	}
	require.Equal(t, Label("L0"), NewAllocator().NewLabel())
}

func TestNamedLabel(t *testing.T) {
	a := NewAllocator()
	require.Equal(t, Label("_main"), a.NamedLabel("main"))
	require.Equal(t, a.NamedLabel("f"), a.NamedLabel("f"))
	labels, _ := a.Counts()
	require.Equal(t, 0, labels)
}

func TestNewTemp(t *testing.T) {
	a := NewAllocator()
	t0 := a.NewTemp()
	t1 := a.NewTemp()
	require.NotEqual(t, t0, t1)
	require.Equal(t, "T1", t1.String())
	_, temps := a.Counts()
	require.Equal(t, 2, temps)
}
