package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt is Get for integers. A malformed value is logged and ignored.
func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}
