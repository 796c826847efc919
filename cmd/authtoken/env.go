package main

import (
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultKeyPath() string {
	return env("AUTHTOKEN_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".authtoken.priv.key"))
}

func defaultDBPath() string {
	return env("AUTHTOKEN_DB", filepath.Join(os.Getenv("HOME"), ".authtoken"))
}
