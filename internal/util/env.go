package util

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the value of the environment variable or the provided
// default if unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

// GetEnvAsInt returns the environment variable parsed as int, falling back
// to the default on absence or parse failure.
func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsBool returns the environment variable parsed as bool, falling
// back to the default on absence or parse failure.
func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsStringArr returns the environment variable split on the
// separator (default ","). Empty entries are dropped.
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	strVal := GetEnv(key, "")

	if len(strVal) == 0 {
		return defaultVal
	}

	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}

	parts := strings.Split(strVal, sep)
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}

	if len(res) == 0 {
		return defaultVal
	}

	return res
}
