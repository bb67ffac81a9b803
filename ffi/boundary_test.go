package ffi

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	verrors "github.com/surtarso/vpxinfo/errors"
	"github.com/surtarso/vpxinfo/extract"
	"github.com/surtarso/vpxinfo/vpx/vpxtest"
)

func writeFixture(t *testing.T, tb vpxtest.Table) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.vpx")
	if err := os.WriteFile(path, vpxtest.Build(tb), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestTableInfoJSON(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{
		Info: map[string]string{
			"TableName":   "Funhouse",
			"AuthorName":  "Pat Lawlor",
			"GlassHeight": "210",
		},
		Code: "Sub Table1_Init\nEnd Sub",
	})

	out, err := TableInfoJSON([]byte(path))
	if err != nil {
		t.Fatalf("TableInfoJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if doc["table_name"] != "Funhouse" {
		t.Errorf("table_name = %v", doc["table_name"])
	}
	if doc["author_name"] != "Pat Lawlor" {
		t.Errorf("author_name = %v", doc["author_name"])
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", doc["properties"])
	}
	if props["GlassHeight"] != "210" {
		t.Errorf("GlassHeight = %v", props["GlassHeight"])
	}
}

func TestGameDataCode(t *testing.T) {
	const script = "Option Explicit\r\nSub Table1_Init\r\nEnd Sub\r\n"
	path := writeFixture(t, vpxtest.Table{Code: script})

	out, err := GameDataCode([]byte(path))
	if err != nil {
		t.Fatalf("GameDataCode: %v", err)
	}
	if out != script {
		t.Errorf("script = %q, want %q", out, script)
	}
}

// countingExtractor swaps the package extractor for one whose opener counts
// invocations, so rejected paths can be shown to trigger no container access.
func countingExtractor(t *testing.T) *int {
	t.Helper()
	opens := 0
	saved := extractor
	extractor = extract.New(extract.WithOpen(func(string) (extract.Container, error) {
		opens++
		return nil, errors.New("counting opener always fails")
	}))
	t.Cleanup(func() { extractor = saved })
	return &opens
}

func TestNullPath(t *testing.T) {
	opens := countingExtractor(t)

	if _, err := TableInfoJSON(nil); !errors.Is(err, verrors.NullInput()) {
		t.Errorf("TableInfoJSON(nil): %v", err)
	}
	if _, err := GameDataCode(nil); !errors.Is(err, verrors.NullInput()) {
		t.Errorf("GameDataCode(nil): %v", err)
	}
	if *opens != 0 {
		t.Errorf("null path reached the opener %d times, want 0", *opens)
	}
}

func TestInvalidUTF8Path(t *testing.T) {
	opens := countingExtractor(t)

	bad := []byte{'/', 't', 'm', 'p', '/', 0xFF, 0xFE}
	want := &verrors.Error{Phase: verrors.PhaseInput, Kind: verrors.KindInvalidUTF8}
	if _, err := TableInfoJSON(bad); !errors.Is(err, want) {
		t.Errorf("TableInfoJSON: %v", err)
	}
	if _, err := GameDataCode(bad); !errors.Is(err, want) {
		t.Errorf("GameDataCode: %v", err)
	}
	if *opens != 0 {
		t.Errorf("invalid path reached the opener %d times, want 0", *opens)
	}
}

func TestMissingFile(t *testing.T) {
	path := []byte(filepath.Join(t.TempDir(), "nope.vpx"))
	want := &verrors.Error{Phase: verrors.PhaseOpen, Kind: verrors.KindOpenFailed}
	if _, err := TableInfoJSON(path); !errors.Is(err, want) {
		t.Errorf("TableInfoJSON: %v", err)
	}
	if _, err := GameDataCode(path); !errors.Is(err, want) {
		t.Errorf("GameDataCode: %v", err)
	}
}

func TestAllocFailureDiagnostic(t *testing.T) {
	err := allocFailure(64)
	want := &verrors.Error{Phase: verrors.PhaseMarshal, Kind: verrors.KindAllocation}
	if !errors.Is(err, want) {
		t.Errorf("expected marshal/allocation, got %v", err)
	}
	if !strings.Contains(err.Detail, "64") {
		t.Errorf("detail should carry the buffer size: %q", err.Detail)
	}
}

func TestConcurrentCalls(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{
		Info: map[string]string{"TableName": "Parallel"},
		Code: "' concurrent",
	})

	done := make(chan error, 16)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := TableInfoJSON([]byte(path))
			done <- err
		}()
		go func() {
			_, err := GameDataCode([]byte(path))
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent call: %v", err)
		}
	}
}

func TestRepeatedCallsAreIndependent(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{
		Info: map[string]string{"TableName": "Repeat"},
		Code: "' nothing",
	})

	first, err := TableInfoJSON([]byte(path))
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := TableInfoJSON([]byte(path))
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first != second {
		t.Errorf("calls disagree: %q vs %q", first, second)
	}
}
