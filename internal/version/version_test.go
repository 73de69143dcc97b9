package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	require.True(t, IsVersionGreaterOrEqualThan("0.2.0", "0.1.0"))
	require.True(t, IsVersionGreaterOrEqualThan("0.2.0", "0.2.0"))
	require.False(t, IsVersionGreaterOrEqualThan("0.1.0", "0.2.0"))
	// Prerelease sorts below its release.
	require.False(t, IsVersionGreaterOrEqualThan("0.2.0-dev", "0.2.0"))
}

func TestStringIncludesShortCommit(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()

	GitCommit = "unknown"
	require.Equal(t, Version, String())

	GitCommit = "0123456789abcdef"
	require.Equal(t, Version+"-01234567", String())
}
