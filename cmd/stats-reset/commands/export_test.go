package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type (
	AppConfig = appConfig
)

// Config returns the configuration of the app.
func (a *App) Config() AppConfig {
	return a.config
}

// WithLookupEnv sets how the app reads the GITHUB_TOKEN and GIST_ID environment variables.
func WithLookupEnv(lookup func(string) (string, bool)) Options {
	return func(o *options) {
		o.lookupEnv = lookup
	}
}

// NewForTests creates a new App instance for testing purposes.
//
// env replaces the process environment for GITHUB_TOKEN and GIST_ID, conf is written to a
// temporary configuration file passed with --config, and the command output is returned.
func NewForTests(t *testing.T, conf map[string]any, env map[string]string, args ...string) (*App, *bytes.Buffer) {
	t.Helper()

	argsWithConf := append([]string{"--config", GenerateTestConfig(t, conf)}, args...)

	a, err := New(WithLookupEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	require.NoError(t, err, "Setup: failed to create app")

	var out bytes.Buffer
	a.cmd.SetOut(&out)
	a.cmd.SetErr(&out)
	a.cmd.SetArgs(argsWithConf)

	return a, &out
}

// GenerateTestConfig generates a temporary config file for testing.
func GenerateTestConfig(t *testing.T, conf map[string]any) string {
	t.Helper()

	if conf == nil {
		conf = map[string]any{}
	}
	if _, ok := conf["verbosity"]; !ok {
		conf["verbosity"] = 2
	}

	d, err := yaml.Marshal(conf)
	require.NoError(t, err, "Setup: failed to marshal config for tests")

	confPath := filepath.Join(t.TempDir(), "testconfig.yaml")
	require.NoError(t, os.WriteFile(confPath, d, 0600), "Setup: failed to write config for tests")

	return confPath
}

// SetArgs set some arguments on root command for tests.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}

// SetSilenceUsage set the SilenceUsage flag on root command for tests.
func (a *App) SetSilenceUsage(silence bool) {
	a.cmd.SilenceUsage = silence
}
