// Package constants is responsible for defining the constants used in the application.
package constants

import (
	"log/slog"
	"time"
)

var (
	// Version is the version of the application.
	Version = "Dev"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "stats-reset"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// TokenEnv is the environment variable holding the GitHub token. It takes precedence over
	// the first positional argument.
	TokenEnv = "GITHUB_TOKEN"

	// GistIDEnv is the environment variable holding the gist ID. It takes precedence over
	// the second positional argument.
	GistIDEnv = "GIST_ID"
)

// GitHub API constants.
const (
	// DefaultAPIURL is the base URL of the GitHub REST API.
	DefaultAPIURL = "https://api.github.com"

	// APIAcceptHeader is the media type requested from the GitHub REST API.
	APIAcceptHeader = "application/vnd.github.v3+json"

	// DefaultRequestTimeout bounds the single update request.
	DefaultRequestTimeout = 30 * time.Second
)

// Stats file constants.
const (
	// DefaultDescription is the gist description written alongside the reset content.
	DefaultDescription = "XMSLEEP App Usage Statistics"

	// DefaultStatsFile is the name of the gist file holding the usage statistics.
	DefaultStatsFile = "xmsleep_stats.json"
)
