package viewer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slots.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func numberedLines(count int) string {
	var b strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestTailLinesLastN(t *testing.T) {
	path := writeLog(t, numberedLines(10000))

	lines, err := TailLines(path, 500)
	require.NoError(t, err)
	require.Len(t, lines, 500)
	assert.Equal(t, "line 9501", lines[0])
	assert.Equal(t, "line 10000", lines[499])
}

func TestTailLinesShortFile(t *testing.T) {
	path := writeLog(t, "first\r\nsecond\nthird")

	lines, err := TailLines(path, 300)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestTailLinesLongLines(t *testing.T) {
	long := strings.Repeat("x", 3000)
	path := writeLog(t, long+"\n"+long+"\nshort\n")

	lines, err := TailLines(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{long, "short"}, lines)
}

func TestTailLinesDropsInvalidUTF8(t *testing.T) {
	path := writeLog(t, "ok\nbad \xff\xfe byte\n")

	lines, err := TailLines(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "bad  byte"}, lines)
}

func TestTailLinesEmptyAndMissing(t *testing.T) {
	lines, err := TailLines(writeLog(t, ""), 10)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = TailLines(filepath.Join(t.TempDir(), "missing.log"), 10)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
