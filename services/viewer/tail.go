package viewer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const tailBlockSize = 1024

// TailLines returns the last n lines of the file at path without reading the
// whole file. It scans backwards in fixed blocks until more than n newlines
// are buffered or the start of the file is reached. Invalid UTF-8 is dropped.
func TailLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	size := info.Size()

	var data []byte
	newlines := 0
	for size > 0 && newlines <= n {
		step := min(int64(tailBlockSize), size)
		size -= step

		block := make([]byte, step)
		if _, err := f.ReadAt(block, size); err != nil && err != io.EOF {
			return nil, err
		}
		newlines += bytes.Count(block, []byte{'\n'})
		data = append(block, data...)
	}

	return lastLines(data, n), nil
}

func lastLines(data []byte, n int) []string {
	data = bytes.TrimSuffix(data, []byte{'\n'})
	if len(data) == 0 || n <= 0 {
		return []string{}
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		lines[i] = strings.ToValidUTF8(strings.TrimSuffix(line, "\r"), "")
	}
	return lines
}
