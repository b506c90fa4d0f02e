package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tvschema/internal/build"
	"tvschema/internal/store"
	"tvschema/internal/testsupport"
)

func TestBuildThenSummaryAndHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStore())
	env.writeFixtures(t)

	out, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "3 classified")
	requireContains(t, out, "1 KSF -> Pseudo QD")
	requireContains(t, out, "Total TVs: 3")
	requireContains(t, out, env.cfg.Paths.OutputCSV)
	if _, err := os.Stat(env.cfg.Paths.OutputJSON); err != nil {
		t.Fatalf("expected json output: %v", err)
	}

	out, _, err = runCLI(t, []string{"summary"}, env.configPath)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	requireContains(t, out, "Total TVs: 3")
	requireContains(t, out, "Reclassified as Pseudo QD (1)")
	requireContains(t, out, "Samsung Q60D")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []store.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].TotalProducts != 3 || runs[0].Reclassified != 1 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	out, _, err = runCLI(t, []string{"summary", "--run", runs[0].ID, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("summary --run: %v", err)
	}
	var decoded summaryOutput
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if decoded.Summary.Total != 3 || decoded.Run.ID != runs[0].ID {
		t.Fatalf("unexpected summary: %+v", decoded)
	}
}

func TestBuildDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeFixtures(t)

	out, _, err := runCLI(t, []string{"build", "--dry-run", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("build --dry-run: %v", err)
	}
	var rep build.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if !rep.DryRun || rep.Products != 3 || len(rep.Outputs) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if _, err := os.Stat(env.cfg.Paths.OutputCSV); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run wrote output: %v", err)
	}
}

func TestBuildOutputOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeFixtures(t)
	target := filepath.Join(t.TempDir(), "custom.csv")

	if _, _, err := runCLI(t, []string{"build", "--quiet", "--out-csv", target}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected override output: %v", err)
	}
}

func TestBuildMissingInputExitCode(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing inputs")
	}
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2 (%v)", code, err)
	}
}

func TestSummaryWithoutStore(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"summary"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when the store is disabled")
	}
	requireContains(t, err.Error(), "store.enabled")
}

func TestSummaryEmptyHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStore())

	_, _, err := runCLI(t, []string{"summary"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without recorded builds")
	}
	requireContains(t, err.Error(), "no builds recorded")

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No builds recorded")
}

func TestHistoryPrune(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStore())
	env.writeFixtures(t)
	for i := 0; i < 3; i++ {
		if _, _, err := runCLI(t, []string{"build", "--quiet"}, env.configPath); err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
	}

	out, _, err := runCLI(t, []string{"history", "prune", "--keep", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	requireContains(t, out, "Removed 2 runs")
}

func TestCheckReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check failure for missing inputs")
	}
	requireContains(t, out, "[ERROR]")

	env.writeFixtures(t)
	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "[OK]")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestRulesCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"rules", "dump"}, "")
	if err != nil {
		t.Fatalf("rules dump: %v", err)
	}
	requireContains(t, out, "brand: Samsung")

	out, _, err = runCLI(t, []string{"rules", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("rules list: %v", err)
	}
	requireContains(t, out, "Source: embedded")
	requireContains(t, out, "Neo QLED")

	out, _, err = runCLI(t, []string{"rules", "label", "Samsung", "Samsung Q60D"}, env.configPath)
	if err != nil {
		t.Fatalf("rules label: %v", err)
	}
	requireContains(t, out, "QLED (rule 2)")

	out, _, err = runCLI(t, []string{"rules", "label", "Acme", "Acme 1"}, env.configPath)
	if err != nil {
		t.Fatalf("rules label unknown: %v", err)
	}
	requireContains(t, out, "No rules for brand")
}
