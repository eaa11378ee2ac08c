package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/testutil"
)

func TestParseListingV1Empty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("  \n\t")} {
		listing, err := parseListingV1(data)
		require.NoError(t, err)
		assert.Empty(t, listing.installs)
	}
}

func TestParseListingV2Empty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("  \n")} {
		listing, err := parseListingV2(data)
		require.NoError(t, err)
		assert.Empty(t, listing.installs)
		assert.Empty(t, listing.other)
	}
}

func TestParseListingV1BadIdentityKey(t *testing.T) {
	_, err := parseListingV1([]byte("[v1]\n\"not an identity\" = [\"tool\"]\n"))
	require.Error(t, err)
}

func TestListingV1MarshalDeterministic(t *testing.T) {
	listing := newListingV1()
	listing.markInstalled(testutil.RegistryPkg("zeta", "1.0.0"), makeSet([]string{"z2", "z1"}))
	listing.markInstalled(testutil.RegistryPkg("alpha", "1.0.0"), makeSet([]string{"a"}))

	first, err := listing.marshal()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := listing.marshal()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}

	parsed, err := parseListingV1(first)
	require.NoError(t, err)
	assert.Len(t, parsed.installs, 2)
	assert.ElementsMatch(t, []string{"z1", "z2"}, sortedSet(parsed.installs[testutil.RegistryPkg("zeta", "1.0.0").ID().Key()].bins))
}

func TestListingV2MarshalDeterministic(t *testing.T) {
	listing := newListingV2()
	opts := &core.BuildOptions{Profile: "release"}
	listing.markInstalled(testutil.RegistryPkg("zeta", "1.0.0"), makeSet([]string{"zeta"}), "", opts, "", "")
	listing.markInstalled(testutil.RegistryPkg("alpha", "1.0.0"), makeSet([]string{"alpha"}), "^1.0", opts, "", "")

	first, err := listing.marshal()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := listing.marshal()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestSyncV1Idempotent(t *testing.T) {
	v1 := newListingV1()
	v1.markInstalled(testutil.RegistryPkg("tool", "1.0.0"), makeSet([]string{"tool"}))

	v2 := newListingV2()
	v2.syncV1(v1)
	require.Len(t, v2.installs, 1)
	entry := v2.installs[testutil.RegistryPkg("tool", "1.0.0").ID().Key()]
	require.NotNil(t, entry)
	assert.Equal(t, "release", entry.info.profile)
	assert.Empty(t, entry.info.target)

	v2.syncV1(v1)
	assert.Len(t, v2.installs, 1)
	assert.Same(t, entry, v2.installs[testutil.RegistryPkg("tool", "1.0.0").ID().Key()])
}

func TestInstallInfoRoundTrip(t *testing.T) {
	opts := &core.BuildOptions{Profile: "release", Features: []string{"json"}, NoDefaultFeatures: true}
	listing := newListingV2()
	listing.markInstalled(testutil.RegistryPkg("tool", "1.0.0"), makeSet([]string{"tool"}), "^1.0", opts, "x86_64-linux", "stable")

	raw, err := listing.installs[testutil.RegistryPkg("tool", "1.0.0").ID().Key()].info.marshal()
	require.NoError(t, err)
	info, err := parseInstallInfo(raw)
	require.NoError(t, err)

	assert.Equal(t, "^1.0", info.versionReq)
	assert.Equal(t, makeSet([]string{"tool"}), info.bins)
	assert.Equal(t, makeSet([]string{"json"}), info.features)
	assert.True(t, info.noDefaultFeatures)
	assert.False(t, info.allFeatures)
	assert.Equal(t, "release", info.profile)
	assert.Equal(t, "x86_64-linux", info.target)
	assert.Equal(t, "stable", info.toolchain)
}
