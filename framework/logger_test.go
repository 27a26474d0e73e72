package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLogger(t *testing.T) {
	var l CapturingLogger
	l.Println("hello", "world")
	l.Printf("value=%d", 3)

	output := l.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "hello world", output[0].Message)
	assert.Equal(t, "value=3", output[1].Message)
}

func TestLoggerWithPrefix(t *testing.T) {
	var base CapturingLogger
	l := LoggerWithPrefix(&base, "[svc] ")
	l.Printf("ready on port %d", 8080)

	output := base.Output()
	require.Len(t, output, 1)
	assert.Equal(t, "[svc] ready on port 8080", output[0].Message)
}

func TestCapturedOutputToString(t *testing.T) {
	var l CapturingLogger
	l.Println("one")
	l.Println("two")

	s := l.Output().ToString("  DEBUG ")
	assert.Contains(t, s, "  DEBUG [")
	assert.Contains(t, s, "one")
	assert.Contains(t, s, "two")
}
