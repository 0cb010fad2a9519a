// Package debug holds env-gated debug switches for tracing parse,
// mapping, and manager activity without touching the public API.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Schema  bool
	Expand  bool
	Manager bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("SUPERCONF_DEBUG_PARSE")
	d.Schema = boolEnv("SUPERCONF_DEBUG_SCHEMA")
	d.Expand = boolEnv("SUPERCONF_DEBUG_EXPAND")
	d.Manager = boolEnv("SUPERCONF_DEBUG_MANAGER")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Schema() bool {
	return d.Schema
}
func Expand() bool {
	return d.Expand
}
func Manager() bool {
	return d.Manager
}
