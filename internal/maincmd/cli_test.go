package maincmd_test

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/filetest"
	"github.com/mna/zero/internal/maincmd"
)

var testUpdateCheckTests = flag.Bool("test.update-check-tests", false, "If set, replace expected check command test results with actual results.")

// TestCheck runs the check command over every fixture in testdata/in and
// diffs its stdout/stderr against the golden files in testdata/out,
// mirroring the teacher's scanner_test.go golden-file pattern.
func TestCheck(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".zero") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

			c := &maincmd.Cmd{}
			// error is ignored, we just want it printed to ebuf
			_ = c.Check(ctx, stdio, []string{filepath.Join(srcDir, fi.Name())})
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateCheckTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateCheckTests)
		})
	}
}
