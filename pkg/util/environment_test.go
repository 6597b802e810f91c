package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentVariables(t *testing.T) {
	t.Setenv("PARATRANSIT_TEST_VALUE", "a=b")
	t.Setenv("PARATRANSIT_TEST_EMPTY", "")

	env := GetEnvironmentVariables()

	assert.Equal(t, "a=b", env["PARATRANSIT_TEST_VALUE"])
	value, ok := env["PARATRANSIT_TEST_EMPTY"]
	assert.True(t, ok)
	assert.Equal(t, "", value)
}
