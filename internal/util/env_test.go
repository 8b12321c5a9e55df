package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SenaryLabs/identity-binding/internal/util"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_UTIL_STRING", "value")

	assert.Equal(t, "value", util.GetEnv("TEST_UTIL_STRING", "default"))
	assert.Equal(t, "default", util.GetEnv("TEST_UTIL_STRING_UNSET", "default"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_UTIL_INT", "42")
	t.Setenv("TEST_UTIL_INT_INVALID", "forty-two")

	assert.Equal(t, 42, util.GetEnvAsInt("TEST_UTIL_INT", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("TEST_UTIL_INT_INVALID", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("TEST_UTIL_INT_UNSET", 1))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_UTIL_BOOL", "true")
	t.Setenv("TEST_UTIL_BOOL_INVALID", "yes please")

	assert.True(t, util.GetEnvAsBool("TEST_UTIL_BOOL", false))
	assert.False(t, util.GetEnvAsBool("TEST_UTIL_BOOL_INVALID", false))
	assert.True(t, util.GetEnvAsBool("TEST_UTIL_BOOL_UNSET", true))
}

func TestGetEnvAsStringArr(t *testing.T) {
	t.Setenv("TEST_UTIL_ARR", "a, b ,c")
	t.Setenv("TEST_UTIL_ARR_EMPTY", ",,")

	assert.Equal(t, []string{"a", "b", "c"}, util.GetEnvAsStringArr("TEST_UTIL_ARR", nil))
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("TEST_UTIL_ARR_UNSET", []string{"x"}))
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("TEST_UTIL_ARR_EMPTY", []string{"x"}))
}
