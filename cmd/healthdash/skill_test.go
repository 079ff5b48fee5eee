// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates embedded content, installation, overwrite and decline paths.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	contentStr := string(content)
	if !strings.HasPrefix(contentStr, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}
	if !strings.Contains(contentStr, "name: healthdash") {
		t.Error("Expected frontmatter to contain 'name: healthdash'")
	}
	if !strings.Contains(contentStr, "description:") {
		t.Error("Expected frontmatter to contain 'description:'")
	}
}

// TestSkillDocumentsTools keeps SKILL.md in step with the MCP tool names.
func TestSkillDocumentsTools(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	for _, tool := range []string{
		"log_entry", "list_entries", "get_entry", "delete_entry", "health_score",
		"add_goal", "list_goals", "update_goal_progress",
		"generate_insights", "analyze_trends", "recommend_goals",
	} {
		if !strings.Contains(string(content), "mcp__healthdash__"+tool) {
			t.Errorf("Expected embedded SKILL.md to reference %q", tool)
		}
	}
}

func TestSkillInstallWithConfirmFlag(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = true
	t.Cleanup(func() { skillSkipConfirm = false })

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader(""), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	dest := filepath.Join(home, ".claude", "skills", "healthdash", "SKILL.md")
	written, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	if !strings.Contains(string(written), "name: healthdash") {
		t.Error("Expected installed skill to contain 'name: healthdash'")
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Failed to stat skill file: %v", err)
	}
	if info.Mode()&0600 != 0600 {
		t.Errorf("Expected file to be rw for owner, got %v", info.Mode())
	}
}

func TestSkillInstallPromptAccept(t *testing.T) {
	home := t.TempDir()

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader("yes\n"), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if _, err := os.Stat(skillPath(home)); err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	if !strings.Contains(out.String(), "Installed healthdash skill") {
		t.Errorf("Expected success message, got %q", out.String())
	}
}

func TestSkillInstallPromptDecline(t *testing.T) {
	home := t.TempDir()

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader("n\n"), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if _, err := os.Stat(skillPath(home)); !os.IsNotExist(err) {
		t.Error("Expected no skill file after declining")
	}
	if !strings.Contains(out.String(), "Installation canceled.") {
		t.Errorf("Expected cancel message, got %q", out.String())
	}
}

func TestSkillInstallOverwritesExistingFile(t *testing.T) {
	home := t.TempDir()
	dest := skillPath(home)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatalf("Failed to create skill directory: %v", err)
	}
	if err := os.WriteFile(dest, []byte("# Old Skill\nstale content"), 0644); err != nil {
		t.Fatalf("Failed to write old skill file: %v", err)
	}

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader("y\n"), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite notice")
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read skill file: %v", err)
	}
	if strings.Contains(string(data), "stale content") {
		t.Error("Old content should have been replaced")
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag to be defined")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand 'y', got %q", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("Expected default value 'false', got %q", flag.DefValue)
	}
}
