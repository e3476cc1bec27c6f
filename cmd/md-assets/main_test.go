// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/md-assets/internal/secrets"
	"github.com/pdiddy/md-assets/pkg/types"
)

func TestSecretDefault(t *testing.T) {
	loadedSecrets = map[string]string{secrets.SessionKey: "from-file"}
	t.Cleanup(func() { loadedSecrets = nil })

	assert.Equal(t, "explicit", secretDefault(secrets.SessionKey, "explicit"))
	assert.Equal(t, "from-file", secretDefault(secrets.SessionKey, ""))
	assert.Empty(t, secretDefault("missing", ""))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestPrintRun(t *testing.T) {
	var buf bytes.Buffer
	printRun(&buf, types.Run{
		ID:           "0123456789abcdef",
		MarkdownPath: "/notes/a.md",
		StartedAt:    time.Now(),
		Found:        3, Downloaded: 1, Failed: 2,
	})
	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "01234567  "))
	assert.Contains(t, line, "found 3, downloaded 1, existed 0, failed 2")
	assert.Contains(t, line, "/notes/a.md")
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"localize", "slides", "history", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestConfigCommandRedactsToken(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()
	viper.Set(keySessionToken, "super-secret")
	viper.Set(keyWorkers, 8)

	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	t.Cleanup(func() { configCmd.SetOut(nil) })
	require.NoError(t, configCmd.RunE(configCmd, nil))

	var got types.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "********", got.Localize.SessionToken)
	assert.Equal(t, 8, got.Localize.Workers)
	assert.Equal(t, types.DefaultHostFilter, got.Localize.HostFilter)
	assert.Equal(t, types.BackendFitz, got.Slides.Backend)
	assert.NotContains(t, buf.String(), "super-secret")
}
