// internal/cli/qa_test.go
package accord

import (
	"strings"
	"testing"

	"github.com/mwiater/accord/internal/annotation"
)

func TestGradeAgainstGolden(t *testing.T) {
	golden := mustParse(t, goldenFixture)
	files := []*annotation.ResultFile{
		mustParse(t, scoreFixtureAlice),
		mustParse(t, scoreFixtureBob),
	}

	stats := gradeAgainstGolden(golden, files)

	if stats.TotalSamples != 2 || stats.HardMatchCount != 1 {
		t.Fatalf("graded/hard = %d/%d, want 2/1", stats.TotalSamples, stats.HardMatchCount)
	}
	if len(stats.FailingSamples) != 1 {
		t.Fatalf("got %d failing samples, want 1", len(stats.FailingSamples))
	}
	failing := stats.FailingSamples[0]
	if failing.AnnotatorID != "alice" {
		t.Fatalf("failing annotator = %q, want alice", failing.AnnotatorID)
	}
	if failing.Prompt != "a red fox" {
		t.Fatalf("failing sample prompt = %q, want the golden package prompt", failing.Prompt)
	}
}

func TestRunQACommand(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "alice.json", scoreFixtureAlice)
	writeFixture(t, dir, "bob.json", scoreFixtureBob)
	goldenPath := writeFixture(t, t.TempDir(), "golden.json", goldenFixture)

	cmd, buf := newTestCommand()
	opts := qaOptions{goldenPath: goldenPath, resultsDir: dir}
	if err := runQACommand(cmd, opts, nil); err != nil {
		t.Fatalf("runQACommand returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Golden-set QA (score mode)") {
		t.Fatalf("summary heading missing from output:\n%s", out)
	}
	if !strings.Contains(out, "Failing samples:") {
		t.Fatalf("failing sample count missing from output:\n%s", out)
	}
}

func TestRunQACommandRequiresGolden(t *testing.T) {
	cmd, _ := newTestCommand()
	err := runQACommand(cmd, qaOptions{resultsDir: t.TempDir()}, nil)
	if err == nil || !strings.Contains(err.Error(), "golden") {
		t.Fatalf("expected a golden-file error, got %v", err)
	}
}
