package advisor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopfloor/shopboard/internal/schedule"
)

type fakeClient struct {
	lastMessages []Message
	response     string
	err          error
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, error) {
	f.lastMessages = messages
	return f.response, f.err
}

func testContext() ([]*schedule.WorkOrder, []*schedule.Machine) {
	orders := []*schedule.WorkOrder{
		{
			ID: 1, Reference: "WO-1001", Product: "Bracket",
			DueDate: time.Date(2026, time.March, 13, 17, 0, 0, 0, time.UTC),
			Operations: []*schedule.Operation{
				{ID: 10, Seq: 1, Name: "Rough mill"},
				{ID: 11, Seq: 2, Name: "Finish mill"},
			},
		},
	}
	machines := []*schedule.Machine{
		{ID: 1, Name: "Haas VF-2SS", Operation: "3-axis mill", Status: schedule.MachineRunning},
	}
	return orders, machines
}

func TestAdviseNoConflicts(t *testing.T) {
	client := &fakeClient{response: "should not be called"}
	a := New(client)

	out, err := a.Advise(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if !strings.Contains(out, "No conflicts") {
		t.Errorf("output = %q", out)
	}
	if client.lastMessages != nil {
		t.Error("client should not be called with no conflicts")
	}
}

func TestAdvisePromptContent(t *testing.T) {
	orders, machines := testContext()
	conflicts := []schedule.Conflict{
		{
			Kind:               schedule.ResourceConflict,
			Severity:           schedule.SeverityHigh,
			Description:        "overlaps 1 scheduled operation on this machine",
			AffectedOperations: []int64{10, 11},
		},
		{
			Kind:        schedule.DeadlineMissed,
			Severity:    schedule.SeverityMedium,
			Description: "placement extends beyond the visible window",
		},
	}

	client := &fakeClient{response: "  Move Finish mill to the Hermle.  "}
	a := New(client)

	out, err := a.Advise(context.Background(), conflicts, orders, machines)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if out != "Move Finish mill to the Hermle." {
		t.Errorf("output not trimmed: %q", out)
	}

	if len(client.lastMessages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(client.lastMessages))
	}
	if client.lastMessages[0].Role != "system" {
		t.Errorf("first message role = %q", client.lastMessages[0].Role)
	}

	prompt := client.lastMessages[1].Content
	for _, want := range []string{
		"Haas VF-2SS",
		"WO-1001",
		"Rough mill",
		"resource_conflict/high",
		"deadline_missed/medium",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAdvisePropagatesError(t *testing.T) {
	client := &fakeClient{err: context.DeadlineExceeded}
	a := New(client)

	conflicts := []schedule.Conflict{{Kind: schedule.ResourceConflict, Description: "x"}}
	if _, err := a.Advise(context.Background(), conflicts, nil, nil); err == nil {
		t.Error("expected error")
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	if _, err := NewClient("watson", "", ""); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoadGitHubTokenFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghu_env")

	token, err := LoadGitHubToken()
	if err != nil {
		t.Fatalf("LoadGitHubToken: %v", err)
	}
	if token != "ghu_env" {
		t.Errorf("token = %q", token)
	}
}

func TestLoadGitHubTokenFromCopilotConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "github-copilot"), 0o755); err != nil {
		t.Fatal(err)
	}
	hosts := `{"github.com:Iv1.abc": {"oauth_token": "ghu_hosts"}}`
	if err := os.WriteFile(filepath.Join(dir, "github-copilot", "hosts.json"), []byte(hosts), 0o600); err != nil {
		t.Fatal(err)
	}

	token, err := LoadGitHubToken()
	if err != nil {
		t.Fatalf("LoadGitHubToken: %v", err)
	}
	if token != "ghu_hosts" {
		t.Errorf("token = %q", token)
	}
}

func TestLoadGitHubTokenMissing(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := LoadGitHubToken(); err == nil {
		t.Error("expected error with no token anywhere")
	}
}
