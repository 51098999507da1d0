package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcliao/ziwei/internal/model"
)

func TestSearch_Basic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := save(t, s, "小明")

	results, err := s.Search(ctx, SearchParams{Query: "太陽"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.ID != rec.ID || r.LifePalace != "卯" || r.Bureau != "土五局" {
		t.Errorf("unexpected result %+v", r)
	}
	if len(r.Matches) != 1 || r.Matches[0].Palace != "命宮" {
		t.Fatalf("expected the life palace to match, got %+v", r.Matches)
	}
	if got := r.Matches[0].String(); !strings.HasPrefix(got, "命宮(卯): ") {
		t.Errorf("unexpected match label %q", got)
	}
}

func TestSearch_AllTermsInOneChunk(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	save(t, s, "小明")

	results, _ := s.Search(ctx, SearchParams{Query: "太陽 化祿"})
	if len(results) != 1 || len(results[0].Matches) != 1 {
		t.Fatalf("expected one matching palace, got %+v", results)
	}

	results, _ = s.Search(ctx, SearchParams{Query: "化祿 太陽"})
	if len(results) != 1 || len(results[0].Matches) != 1 || results[0].Matches[0].Palace != "命宮" {
		t.Fatalf("term order should not matter, got %+v", results)
	}

	// A name term does not satisfy the chunk terms.
	results, _ = s.Search(ctx, SearchParams{Query: "太陽 小明"})
	if len(results) != 0 {
		t.Fatalf("expected no result, got %+v", results)
	}

	// 天機 and 太陽 sit in different palaces.
	results, _ = s.Search(ctx, SearchParams{Query: "天機 太陽"})
	if len(results) != 0 {
		t.Fatalf("expected no result, got %+v", results)
	}
}

func TestSearch_ByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	save(t, s, "王小明")

	results, err := s.Search(ctx, SearchParams{Query: "小明"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected name match, got %d", len(results))
	}
	if len(results[0].Matches) != 0 {
		t.Errorf("name match should not list chunks, got %+v", results[0].Matches)
	}
}

func TestSearch_Interpretation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec := save(t, s, "a")
	s.SetInterpretation(ctx, rec.ID, &model.Interpretation{OverallDestiny: "晚年安穩。"})

	results, _ := s.Search(ctx, SearchParams{Query: "晚年"})
	if len(results) != 1 || len(results[0].Matches) != 1 {
		t.Fatalf("expected interpretation match, got %+v", results)
	}
	if got := results[0].Matches[0].String(); got != "總論: 晚年安穩。" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestSearch_DeletedExcluded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := save(t, s, "a")
	save(t, s, "b")
	s.Rm(ctx, RmParams{ID: a.ID})

	results, _ := s.Search(ctx, SearchParams{Query: "紫微"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result after delete, got %d", len(results))
	}
	if results[0].ID == a.ID {
		t.Error("deleted chart should not appear")
	}
}

func TestSearch_Limit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, n := range []string{"a", "b", "c"} {
		save(t, s, n)
	}
	results, _ := s.Search(ctx, SearchParams{Query: "紫微", Limit: 2})
	if len(results) != 2 {
		t.Fatalf("expected 2, got %d", len(results))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Search(context.Background(), SearchParams{Query: "  "}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := NewSQLiteStore(dbPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	a := save(t, s, "a")
	save(t, s, "b")
	c := save(t, s, "c")
	s.Rm(ctx, RmParams{ID: c.ID})
	s.SetInterpretation(ctx, a.ID, &model.Interpretation{OverallDestiny: "x"})

	stats, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalCharts != 3 || stats.ActiveCharts != 2 {
		t.Fatalf("expected 3 total 2 active, got %d/%d", stats.TotalCharts, stats.ActiveCharts)
	}
	if stats.Interpreted != 1 {
		t.Errorf("expected 1 interpreted, got %d", stats.Interpreted)
	}
	if len(stats.Bureaus) != 1 || stats.Bureaus[0].Bureau != "土五局" || stats.Bureaus[0].Count != 2 {
		t.Errorf("unexpected bureaus %+v", stats.Bureaus)
	}
	if stats.DBSizeBytes == 0 {
		t.Fatal("expected non-zero db size")
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewSQLiteStore(filepath.Join(dir, "src.db"), nil)
	defer s1.Close()
	ctx := context.Background()

	a := save(t, s1, "a")
	save(t, s1, "b")
	s1.SetInterpretation(ctx, a.ID, &model.Interpretation{OverallDestiny: "x"})

	exported, err := s1.ExportAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}

	s2, _ := NewSQLiteStore(filepath.Join(dir, "dst.db"), nil)
	defer s2.Close()

	n, err := s2.Import(ctx, exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}

	// Re-importing skips existing ids.
	n, _ = s2.Import(ctx, exported)
	if n != 0 {
		t.Errorf("expected 0 on re-import, got %d", n)
	}

	got, err := s2.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("created_at not preserved: %v vs %v", got.CreatedAt, a.CreatedAt)
	}
	if got.Reading.Interpretation == nil {
		t.Error("interpretation not imported")
	}
}
