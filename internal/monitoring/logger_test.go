package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var messages []string
	SetLogger(func(format string, v ...interface{}) {
		messages = append(messages, fmt.Sprintf(format, v...))
	})
	Logf("token %s looks odd", "abc")
	assert.Equal(t, []string{"token abc looks odd"}, messages)

	// nil mutes the package logger rather than panicking.
	SetLogger(nil)
	Logf("dropped")
	assert.Len(t, messages, 1)
}

func TestLogfDefault(t *testing.T) {
	assert.NotNil(t, Logf)
}
