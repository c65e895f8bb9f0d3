package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageDirForEachUserIsAscending(t *testing.T) {
	dir := NewPageDir()
	require.NoError(t, dir.Map(0x3000, MakeFramePTE(1, PTEUser)))
	require.NoError(t, dir.Map(0x1000, MakeFramePTE(2, PTEUser)))
	require.NoError(t, dir.Map(0x2000, MakeFramePTE(3, PTEUser)))

	var seen []uint32
	dir.ForEachUser(func(va uint32, _ PTE) { seen = append(seen, va) })

	assert.Equal(t, []uint32{0x1000, 0x2000, 0x3000}, seen)
}

func TestPageDirMapRejectsKernelAddress(t *testing.T) {
	dir := NewPageDir()
	err := dir.Map(KernBase, MakeFramePTE(1, PTEUser))
	assert.Error(t, err)
}

func TestClearAccessedOnlyTouchesPresentUser(t *testing.T) {
	dir := NewPageDir()
	require.NoError(t, dir.Map(0x1000, MakeFramePTE(1, PTEUser|PTEAccessed)))
	require.NoError(t, dir.Map(0x2000, MakeSwapPTE(4, PTEUser|PTEAccessed)))

	dir.ClearAccessed()

	present, _ := dir.Walk(0x1000)
	assert.False(t, present.Accessed())

	swapped, _ := dir.Walk(0x2000)
	assert.True(t, swapped.Accessed(), "non-present entries are untouched by the accessed-bit sweep")
}
