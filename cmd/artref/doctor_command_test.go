package main

import (
	"fmt"
	"strings"
	"testing"

	"artref/internal/preflight"
)

func TestDoctorPassesWithPreparedLayout(t *testing.T) {
	env := setupCLITestEnv(t)
	writeCatalogCSV(t, env.cfg.Catalog.Input)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "Thumbnail source:")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("expected no errors, got %q", out)
	}
}

func TestDoctorFailsWithoutCatalogInput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "Catalog input:")
	requireContains(t, out, "[ERROR]")
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Manifest", statusError, "not writable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Manifest:", "[ERROR] not writable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Manifest", statusOK, "", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestResultStatus(t *testing.T) {
	cases := []struct {
		result preflight.Result
		want   statusKind
	}{
		{preflight.Result{Passed: true}, statusOK},
		{preflight.Result{Passed: true, Warning: true}, statusWarn},
		{preflight.Result{Passed: false}, statusError},
	}
	for _, tc := range cases {
		if got := resultStatus(tc.result); got != tc.want {
			t.Fatalf("resultStatus(%+v) = %v, want %v", tc.result, got, tc.want)
		}
	}
}
