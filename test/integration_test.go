// ABOUTME: Integration tests for the healthdash CLI.
// ABOUTME: Builds the binary and drives a full log, score, goal and export workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "healthdash")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/healthdash")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	tmpDir := t.TempDir()
	dbURL := "sqlite://" + filepath.Join(tmpDir, "test.db")
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+tmpDir,
		"DATABASE_URL="+dbURL,
		"ANTHROPIC_API_KEY=",
		"GEMINI_API_KEY=",
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Dir = tmpDir
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}
	mustRun := func(want string, args ...string) string {
		t.Helper()
		output, err := run(args...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, output)
		}
		if want != "" && !strings.Contains(output, want) {
			t.Errorf("%v: expected %q in output, got: %s", args, want, output)
		}
		return output
	}

	// A week of healthy entries
	for _, day := range []string{"01", "02", "03", "04", "05", "06", "07"} {
		mustRun("Logged 2026-09-"+day, "log", "--date", "2026-09-"+day,
			"--weight", "80", "--bp", "115/75", "--heart-rate", "65",
			"--sleep", "8", "--exercise", "30", "--mood", "Good")
	}

	mustRun("2026-09-07", "list", "--days", "0")
	mustRun("Health score: 100/100", "score")
	mustRun("Normal", "show", "2026-09-07")
	out := mustRun("Overview", "dashboard", "--days", "0")
	if !strings.Contains(out, "100.0% logged") {
		t.Errorf("expected completeness in dashboard, got: %s", out)
	}

	// Out-of-range values are rejected with the reason
	output, err := run("log", "--heart-rate", "300")
	if err == nil {
		t.Fatalf("Expected heart rate 300 to be rejected, got: %s", output)
	}
	if !strings.Contains(output, "Heart rate must be between 30 and 220 bpm") {
		t.Errorf("Expected validation message, got: %s", output)
	}

	// Goals by ID prefix
	output = mustRun("Added goal", "goal", "add", "sleep", "8", "--by", "2027-01-01", "-d", "Sleep well")
	id := regexp.MustCompile(`[0-9a-f]{8}`).FindString(output)
	if id == "" {
		t.Fatalf("No goal ID in output: %s", output)
	}
	mustRun("Goal completed", "goal", "progress", id, "8")
	mustRun("completed", "goal", "list")

	// Insights degrade without a provider
	mustRun("No language model configured", "insights", "health")

	// Export
	mustRun(`"weight": 80`, "export", "json")
	mustRun("date,weight", "export", "csv")
}
