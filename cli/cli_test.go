package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"cost-seer/config"
	"cost-seer/domain"
	"cost-seer/identity"
	"cost-seer/repository"
)

type runner func(stdin string, args ...string) (string, error)

// newRunner points the CLI at a fresh SQLite file shared by every call the
// returned runner makes.
func newRunner(t *testing.T) runner {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("COSTSEER_STORAGE", "sqlite")
	t.Setenv("COSTSEER_DB_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("COSTSEER_LOG_LEVEL", "error")
	t.Setenv("COSTSEER_REDIS_ADDR", "")

	return func(stdin string, args ...string) (string, error) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		cmd := newRootCommand(&Options{}, logger)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetArgs(append([]string{"--env-file", filepath.Join(dir, "none.env")}, args...))
		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}
}

func TestLanguagesJSON(t *testing.T) {
	run := newRunner(t)
	out, err := run("", "languages", "-o", "json")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	var options []domain.LanguageOption
	if err := json.Unmarshal([]byte(out), &options); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(options) != 5 {
		t.Fatalf("options = %d, want 5", len(options))
	}
}

func TestLanguagesText(t *testing.T) {
	run := newRunner(t)
	out, err := run("", "languages")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if !strings.Contains(out, "High-level (Python, JavaScript)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	run := newRunner(t)
	if _, err := run("", "languages", "-o", "xml"); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestEstimateSaveThenHistory(t *testing.T) {
	run := newRunner(t)
	out, err := run("", "--user", "alice", "estimate", "--save", "-o", "json")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var report estimateReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Estimate.Amount < 32184 || report.Estimate.Amount > 35573 {
		t.Fatalf("amount %d outside ±5%% of 33878", report.Estimate.Amount)
	}

	out, err = run("", "--user", "alice", "history", "-o", "yaml")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var list []domain.SavedEstimate
	if err := yaml.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(list) != 1 || list[0].Amount != report.Estimate.Amount {
		t.Fatalf("history = %+v", list)
	}

	out, err = run("", "--user", "bob", "history")
	if err != nil {
		t.Fatalf("history bob: %v", err)
	}
	if !strings.Contains(out, "No saved estimates.") {
		t.Fatalf("bob should see no estimates:\n%s", out)
	}

	if _, err := run("", "--user", "alice", "delete", list[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out, _ = run("", "--user", "alice", "history")
	if !strings.Contains(out, "No saved estimates.") {
		t.Fatalf("expected empty history after delete:\n%s", out)
	}
}

func TestEstimateRejectsInvalidInput(t *testing.T) {
	run := newRunner(t)
	_, err := run("", "estimate", "--transactions", "0")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEstimateSaveWithoutUser(t *testing.T) {
	run := newRunner(t)
	if _, err := run("", "estimate", "--save"); err == nil {
		t.Fatal("expected error when saving without a user")
	}
}

func TestSessionScript(t *testing.T) {
	run := newRunner(t)
	script := strings.Join([]string{
		"set transactions=0",
		"estimate",
		"set transactions=50 language=2",
		"estimate",
		"save",
		"list",
		"quit",
	}, "\n")

	out, err := run(script, "--user", "alice", "session")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	for _, want := range []string{
		"All values must be greater than zero",
		"Cost estimation completed!",
		"Estimation saved successfully",
		"review> ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("session output missing %q:\n%s", want, out)
		}
	}

	out, _ = run("", "--user", "alice", "history", "-o", "json")
	var list []domain.SavedEstimate
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(list) != 1 || list[0].Parameters.Language != 2 {
		t.Fatalf("history = %+v", list)
	}
}

func TestApplyAssignments(t *testing.T) {
	var v domain.ParameterVector
	if err := applyAssignments(&v, []string{"team_exp=2.5", "language=4"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v.TeamExp != 2.5 || v.Language != 4 {
		t.Fatalf("vector = %+v", v)
	}
	for _, bad := range []string{"team_exp", "colour=1", "length=abc", "language=x"} {
		if err := applyAssignments(&v, []string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestTokenCommand(t *testing.T) {
	run := newRunner(t)
	t.Setenv("COSTSEER_JWT_SECRET", "cli-secret")

	out, err := run("", "--user", "alice", "token")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	verifier, _ := identity.NewTokenVerifier("cli-secret", "cost-seer", nil)
	u, err := verifier.Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if u.ID != "alice" {
		t.Fatalf("user = %+v", u)
	}
}

func TestLocalCacheOnlyForMemoryStorage(t *testing.T) {
	a := &app{cfg: config.Config{Storage: config.StorageSQLite}}
	if c := a.localCache(); c != nil {
		t.Errorf("sqlite storage should not use an in-process cache, got %T", c)
	}

	a.cfg.Storage = config.StorageMemory
	if _, ok := a.localCache().(*repository.MemoryCache); !ok {
		t.Errorf("memory storage should use MemoryCache")
	}
}
