package main

import (
	"encoding/json"
	"os"
	"testing"
)

func TestCatalogExportWritesJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	writeCatalogCSV(t, env.cfg.Catalog.Input,
		`a1,Mona Lisa,Leonardo,1503,Renaissance,Portrait; Woman,Oil/Poplar,img/a1.jpg,Louvre,PD,https://example.org/a1`,
		`a2,Untitled,,,,,,img/a2.jpg,,,`,
	)

	out, _, err := runCLI(t, []string{"catalog"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	requireContains(t, out, "Exported 2 artworks")

	data, err := os.ReadFile(env.cfg.Catalog.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["year"] != float64(1503) {
		t.Fatalf("expected year 1503, got %v", records[0]["year"])
	}
	if records[1]["year"] != nil {
		t.Fatalf("expected null year, got %v", records[1]["year"])
	}
	subjects, _ := records[0]["subjects"].([]any)
	if len(subjects) != 2 || subjects[0] != "Portrait" || subjects[1] != "Woman" {
		t.Fatalf("unexpected subjects %v", records[0]["subjects"])
	}
}

func TestCatalogExportMissingInputFails(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"catalog"}, env.configPath); err == nil {
		t.Fatal("expected error for missing spreadsheet")
	}
	if _, err := os.Stat(env.cfg.Catalog.Output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
}

func TestCatalogStatsJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	writeCatalogCSV(t, env.cfg.Catalog.Input,
		`a1,One,Vermeer,1665,Baroque,Portrait,Oil,img/1.jpg,,,`,
		`a2,Two,vermeer,1660,Baroque,Interior,Oil,img/2.jpg,,,`,
	)

	out, _, err := runCLI(t, []string{"catalog", "stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	var stats struct {
		Artworks int `json:"artworks"`
		Artists  []struct {
			Value string `json:"value"`
			Count int    `json:"count"`
		} `json:"artists"`
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v (%q)", err, out)
	}
	if stats.Artworks != 2 {
		t.Fatalf("expected 2 artworks, got %d", stats.Artworks)
	}
	if len(stats.Artists) != 1 || stats.Artists[0].Count != 2 {
		t.Fatalf("expected folded artist count, got %+v", stats.Artists)
	}
}
