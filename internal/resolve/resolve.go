// Package resolve looks up configuration values through an ordered list of providers.
//
// Providers are queried in order and the first non-empty value wins. This is how the command
// line tool gives an environment variable precedence over a positional argument, which itself
// beats the flags and configuration file handled by viper.
package resolve

import (
	"fmt"
	"os"
	"strings"
)

// Provider yields a configuration value. ok is false when the provider has nothing to offer.
type Provider interface {
	Lookup() (value string, ok bool)
	fmt.Stringer
}

// Chain is an ordered list of providers.
type Chain []Provider

// Resolve returns the first non-empty value of the chain and the provider it came from.
// Surrounding whitespace is trimmed, and a value made only of whitespace counts as empty.
func (c Chain) Resolve() (value string, from Provider, ok bool) {
	for _, p := range c {
		v, ok := p.Lookup()
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		return v, p, true
	}
	return "", nil, false
}

type env struct {
	name   string
	lookup func(string) (string, bool)
}

// Env returns a provider reading the environment variable name.
func Env(name string) Provider {
	return EnvFrom(name, os.LookupEnv)
}

// EnvFrom is like Env, but reads variables through lookup.
func EnvFrom(name string, lookup func(string) (string, bool)) Provider {
	return env{name: name, lookup: lookup}
}

func (e env) Lookup() (string, bool) { return e.lookup(e.name) }
func (e env) String() string         { return "environment variable " + e.name }

type arg struct {
	args  []string
	index int
}

// Arg returns a provider yielding the positional argument at index, if present.
func Arg(args []string, index int) Provider {
	return arg{args: args, index: index}
}

func (a arg) Lookup() (string, bool) {
	if a.index < 0 || a.index >= len(a.args) {
		return "", false
	}
	return a.args[a.index], true
}

func (a arg) String() string { return fmt.Sprintf("positional argument %d", a.index+1) }

type value struct {
	name string
	v    string
}

// Value returns a provider yielding an already loaded value, such as one decoded by viper.
// name is only used to describe where the value came from.
func Value(name, v string) Provider {
	return value{name: name, v: v}
}

func (v value) Lookup() (string, bool) { return v.v, v.v != "" }
func (v value) String() string         { return v.name }
