package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigCollectsRepeatedRoots(t *testing.T) {
	cfg, err := parseConfig([]string{"--root", "/opt/a", "--root", "/opt/b", "--openvas", "/opt/openvas"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/a", "/opt/b"}, cfg.roots)
	assert.Equal(t, "/opt/openvas", cfg.openvas)
}

func TestParseConfigDefaultsLogLevelToInfo(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.logLevel)
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	_, err := parseConfig([]string{"--not-a-flag"})
	assert.Error(t, err)
}
