package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 12*time.Hour, ParseDuration("12h", time.Hour))
	assert.Equal(t, 90*time.Second, ParseDuration("90s", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("garbage", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}

func TestStringPtrOrNil(t *testing.T) {
	assert.Nil(t, StringPtrOrNil(""))

	ptr := StringPtrOrNil("value")
	assert.NotNil(t, ptr)
	assert.Equal(t, "value", *ptr)
}
