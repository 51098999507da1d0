package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/ziwei/internal/batch"
	"github.com/rcliao/ziwei/internal/model"
	"github.com/rcliao/ziwei/internal/store"
)

type env struct {
	t    *testing.T
	base []string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	for _, k := range []string{"ZIWEI_DB", "ZIWEI_CONFIG", "API_KEY", "GEMINI_API_KEY", "ZIWEI_GEMINI_MODEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &env{t: t, base: []string{
		"--db", filepath.Join(dir, "charts.db"),
		"--config", filepath.Join(dir, "config.yaml"),
	}}
}

// run executes the CLI with the given format and arguments and returns stdout.
func (e *env) run(format string, args ...string) []byte {
	e.t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append(append(args, e.base...), "--format", format))
	require.NoError(e.t, RootCmd.Execute(), out.String())
	return out.Bytes()
}

var chartArgs = []string{"chart", "--name", "小明", "--gender", "male", "--date", "1990-06-07", "--hour", "卯", "--calendar", "solar", "--leap=false"}

func TestChartJSON(t *testing.T) {
	e := newEnv(t)
	out := e.run("json", append(chartArgs, "--save=false")...)

	var r model.Reading
	require.NoError(t, json.Unmarshal(out, &r), string(out))
	assert.Equal(t, "小明", r.Profile.Name)
	assert.Equal(t, model.Male, r.Profile.Gender)
	assert.NotEmpty(t, r.Profile.Bureau)
	assert.NotEmpty(t, r.Chart.LifePalace)
	for i, p := range r.Chart.Palaces {
		assert.Equal(t, i, p.BranchIndex)
		assert.NotEmpty(t, p.Name)
	}
	assert.Nil(t, r.Interpretation)
}

func TestChartFormats(t *testing.T) {
	e := newEnv(t)

	text := string(e.run("text", append(chartArgs, "--save=false")...))
	assert.Contains(t, text, "小明")
	assert.Contains(t, text, "命宮")

	grid := string(e.run("grid", append(chartArgs, "--save=false")...))
	assert.Contains(t, grid, "紫微斗數命盤")
	assert.Contains(t, grid, "紫微")
}

func TestArchiveLifecycle(t *testing.T) {
	e := newEnv(t)

	var rec model.Record
	out := e.run("json", append(chartArgs, "--save")...)
	require.NoError(t, json.Unmarshal(out, &rec), string(out))
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, "小明", rec.Input.Name)

	var got model.Record
	require.NoError(t, json.Unmarshal(e.run("json", "get", rec.ID), &got))
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Reading.Chart.LifePalace, got.Reading.Chart.LifePalace)

	var list []chartSummary
	require.NoError(t, json.Unmarshal(e.run("json", "list", "--name", "", "--bureau", "", "--limit", "20"), &list))
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
	assert.Equal(t, "1990-06-07", list[0].BirthDate)

	var hits []store.SearchResult
	require.NoError(t, json.Unmarshal(e.run("json", "search", "紫微", "--limit", "20"), &hits))
	require.Len(t, hits, 1)
	require.Len(t, hits[0].Matches, 1)

	exported := e.run("json", "export")
	var records []model.Record
	require.NoError(t, json.Unmarshal(exported, &records))
	require.Len(t, records, 1)
	dump := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(dump, exported, 0o644))

	var st store.Stats
	require.NoError(t, json.Unmarshal(e.run("json", "stats"), &st))
	assert.Equal(t, 1, st.ActiveCharts)

	var rm struct {
		OK   bool `json:"ok"`
		Hard bool `json:"hard"`
	}
	require.NoError(t, json.Unmarshal(e.run("json", "rm", rec.ID, "--hard"), &rm))
	assert.True(t, rm.OK)
	assert.True(t, rm.Hard)

	require.NoError(t, json.Unmarshal(e.run("json", "list", "--limit", "20"), &list))
	assert.Empty(t, list)

	var imp struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(e.run("json", "import", dump), &imp))
	assert.Equal(t, 1, imp.Imported)
	assert.Equal(t, 0, imp.Skipped)

	require.NoError(t, json.Unmarshal(e.run("json", "get", rec.ID), &got))
	assert.Equal(t, rec.ID, got.ID)
}

func TestBatchCommand(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(t.TempDir(), "births.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
births:
  - name: 甲
    gender: male
    date: 1990-06-07
    hour: 卯
  - name: 乙
    gender: female
    date: 1990-13-40
    hour: 子
`), 0o644))

	var results []batch.Result
	out := e.run("json", "batch", file, "--workers", "2", "--save=false")
	require.NoError(t, json.Unmarshal(out, &results), string(out))
	require.Len(t, results, 2)
	assert.NotNil(t, results[0].Reading)
	assert.Empty(t, results[0].Error)
	assert.Nil(t, results[1].Reading)
	assert.NotEmpty(t, results[1].Error)
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a": 1}`, out.String())

	out.Reset()
	assert.Error(t, writeJSON(&out, map[string]interface{}{"c": make(chan int)}))
	assert.Empty(t, out.String())
}
