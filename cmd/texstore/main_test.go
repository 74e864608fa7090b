package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	require.Equal(t, "map.dds", replaceExt("map.png", ".dds"))
	require.Equal(t, "dir.v2/map.dds", replaceExt("dir.v2/map", ".dds"))
	require.Equal(t, "dir.v2/map.dds", replaceExt("dir.v2/map.tga", ".dds"))
	require.Equal(t, "noext.dds", replaceExt("noext", ".dds"))
}
