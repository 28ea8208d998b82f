package tests_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// dirOf is the folder holding a generated fixture.
func dirOf(fixture string) string {
	return filepath.Dir(fixture)
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectFile returns a comparator verifying that the file at path holds exactly content.
// The command output itself is ignored.
func expectFile(path, content string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		data, err := os.ReadFile(path)
		if err != nil {
			testing.Log(fmt.Sprintf("reading %s: %v", path, err))
			testing.Fail()

			return
		}

		if string(data) != content {
			testing.Log(fmt.Sprintf("unexpected content in %s:\nwant:\n%s\ngot:\n%s", path, content, data))
			testing.Fail()
		}
	}
}

// expectResultLines returns a comparator verifying that the result file at path has a header and count records,
// each shaped "<path> - <lra>".
func expectResultLines(path string, count int) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		data, err := os.ReadFile(path)
		if err != nil {
			testing.Log(fmt.Sprintf("reading %s: %v", path, err))
			testing.Fail()

			return
		}

		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		if len(lines) != count+1 {
			testing.Log(fmt.Sprintf("expected header and %d records in %s, got:\n%s", count, path, data))
			testing.Fail()

			return
		}

		for _, line := range lines[1:] {
			if !strings.Contains(line, " - ") {
				testing.Log(fmt.Sprintf("malformed result line %q in %s", line, path))
				testing.Fail()
			}
		}
	}
}
