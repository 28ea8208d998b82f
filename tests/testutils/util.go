// Package testutils provides test infrastructure for lrascan integration tests.
package testutils

import (
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// ResultsFile is the result file name a scan writes inside the scanned folder.
const ResultsFile = "lra_results.txt"

// Setup creates a test case configured to run the lrascan binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", "lrascan")

	return agar.Setup(binaryPath)
}

// ResultsPath returns the result file of a scan of the folder holding fixture.
func ResultsPath(fixture string) string {
	return filepath.Join(filepath.Dir(fixture), ResultsFile)
}
