package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmsleep/stats-reset/internal/resolve"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		env  map[string]string
		args []string
		flag string

		want     string
		wantFrom string
		wantOK   bool
	}{
		"Env wins over positional":      {env: map[string]string{"TOKEN": "from-env"}, args: []string{"from-arg"}, want: "from-env", wantFrom: "environment variable TOKEN", wantOK: true},
		"Env wins over flag":            {env: map[string]string{"TOKEN": "from-env"}, flag: "from-flag", want: "from-env", wantFrom: "environment variable TOKEN", wantOK: true},
		"Positional when env unset":     {args: []string{"from-arg"}, flag: "from-flag", want: "from-arg", wantFrom: "positional argument 1", wantOK: true},
		"Positional when env empty":     {env: map[string]string{"TOKEN": ""}, args: []string{"from-arg"}, want: "from-arg", wantFrom: "positional argument 1", wantOK: true},
		"Positional when env is blank":  {env: map[string]string{"TOKEN": "   "}, args: []string{"from-arg"}, want: "from-arg", wantFrom: "positional argument 1", wantOK: true},
		"Flag when nothing else is set": {flag: "from-flag", want: "from-flag", wantFrom: "--token", wantOK: true},
		"Values are trimmed":            {args: []string{"  padded\n"}, want: "padded", wantFrom: "positional argument 1", wantOK: true},

		"Nothing set":           {},
		"Empty positional only": {args: []string{""}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lookup := func(k string) (string, bool) {
				v, ok := tc.env[k]
				return v, ok
			}
			chain := resolve.Chain{
				resolve.EnvFrom("TOKEN", lookup),
				resolve.Arg(tc.args, 0),
				resolve.Value("--token", tc.flag),
			}

			got, from, ok := chain.Resolve()
			require.Equal(t, tc.wantOK, ok, "Unexpected resolution result")
			assert.Equal(t, tc.want, got)
			if !tc.wantOK {
				assert.Nil(t, from, "No provider should be reported when nothing resolved")
				return
			}
			assert.Equal(t, tc.wantFrom, from.String())
		})
	}
}

func TestArg(t *testing.T) {
	t.Parallel()

	args := []string{"first", "second"}

	tests := map[string]struct {
		index int

		want   string
		wantOK bool
	}{
		"First":        {index: 0, want: "first", wantOK: true},
		"Second":       {index: 1, want: "second", wantOK: true},
		"Out of range": {index: 2},
		"Negative":     {index: -1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := resolve.Arg(args, tc.index).Lookup()
			require.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("STATS_RESET_RESOLVE_TEST", "value")

	got, ok := resolve.Env("STATS_RESET_RESOLVE_TEST").Lookup()
	require.True(t, ok, "Set environment variable should be found")
	assert.Equal(t, "value", got)

	_, ok = resolve.Env("STATS_RESET_RESOLVE_TEST_UNSET").Lookup()
	assert.False(t, ok, "Unset environment variable should not be found")
}
