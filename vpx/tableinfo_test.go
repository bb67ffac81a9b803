package vpx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	verrors "github.com/surtarso/vpxinfo/errors"
	"github.com/surtarso/vpxinfo/vpx/vpxtest"
)

func TestReadTableInfo(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{
		Info: map[string]string{
			"TableName":        "Medieval Madness",
			"AuthorName":       "Brian Eddy",
			"TableBlurb":       "storm the castle",
			"TableRules":       "hit the gate",
			"AuthorEmail":      "brian@example.com",
			"ReleaseDate":      "1997-06-01",
			"TableSaveRev":     "42",
			"TableVersion":     "1.2",
			"AuthorWebSite":    "https://example.com",
			"TableSaveDate":    "2024-01-05",
			"TableDescription": "a remake",
			"GlassHeight":      "210",
			"PlayfieldWidth":   "952",
		},
		Code: "' unused",
	})

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	info, err := f.ReadTableInfo()
	if err != nil {
		t.Fatalf("ReadTableInfo: %v", err)
	}

	fields := map[string]string{
		"TableName":        info.TableName,
		"AuthorName":       info.AuthorName,
		"TableBlurb":       info.TableBlurb,
		"TableRules":       info.TableRules,
		"AuthorEmail":      info.AuthorEmail,
		"ReleaseDate":      info.ReleaseDate,
		"TableSaveRev":     info.TableSaveRev,
		"TableVersion":     info.TableVersion,
		"AuthorWebSite":    info.AuthorWebSite,
		"TableSaveDate":    info.TableSaveDate,
		"TableDescription": info.TableDescription,
	}
	want := map[string]string{
		"TableName":        "Medieval Madness",
		"AuthorName":       "Brian Eddy",
		"TableBlurb":       "storm the castle",
		"TableRules":       "hit the gate",
		"AuthorEmail":      "brian@example.com",
		"ReleaseDate":      "1997-06-01",
		"TableSaveRev":     "42",
		"TableVersion":     "1.2",
		"AuthorWebSite":    "https://example.com",
		"TableSaveDate":    "2024-01-05",
		"TableDescription": "a remake",
	}
	for stream, got := range fields {
		if got != want[stream] {
			t.Errorf("%s = %q, want %q", stream, got, want[stream])
		}
	}

	if len(info.Properties) != 2 {
		t.Fatalf("Properties = %v, want 2 entries", info.Properties)
	}
	if info.Properties["GlassHeight"] != "210" {
		t.Errorf("GlassHeight = %q", info.Properties["GlassHeight"])
	}
	if info.Properties["PlayfieldWidth"] != "952" {
		t.Errorf("PlayfieldWidth = %q", info.Properties["PlayfieldWidth"])
	}
}

func TestReadTableInfo_AbsentFieldsAreEmpty(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{
		Info: map[string]string{"TableName": "Sparse"},
		Code: "' unused",
	})

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	info, err := f.ReadTableInfo()
	if err != nil {
		t.Fatalf("ReadTableInfo: %v", err)
	}
	if info.TableName != "Sparse" {
		t.Errorf("TableName = %q", info.TableName)
	}
	if info.AuthorName != "" || info.TableVersion != "" {
		t.Errorf("absent fields should be empty: %+v", info)
	}
	if len(info.Properties) != 0 {
		t.Errorf("Properties = %v, want none", info.Properties)
	}
}

func TestReadTableInfo_Unicode(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{
		Info: map[string]string{"TableName": "Théâtre Magique — 日本語"},
		Code: "' unused",
	})

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	info, err := f.ReadTableInfo()
	if err != nil {
		t.Fatalf("ReadTableInfo: %v", err)
	}
	if info.TableName != "Théâtre Magique — 日本語" {
		t.Errorf("TableName = %q", info.TableName)
	}
}

func TestReadTableInfo_MissingStorage(t *testing.T) {
	data := vpxtest.Build(vpxtest.Table{
		Info: map[string]string{"TableName": "X"},
		Code: "' unused",
	})

	// Rename the TableInfo storage in place so the lookup misses.
	name := encodeName("TableInfo")
	bad := encodeName("TableXnfo")
	if !bytes.Contains(data, name) {
		t.Fatal("fixture does not contain TableInfo directory name")
	}
	data = bytes.Replace(data, name, bad, 1)

	path := filepath.Join(t.TempDir(), "renamed.vpx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	_, err = f.ReadTableInfo()
	if !errors.Is(err, &verrors.Error{Phase: verrors.PhaseDecode, Kind: verrors.KindDecodeFailed}) {
		t.Fatalf("expected decode_failed, got %v", err)
	}
}

// encodeName returns the UTF-16LE bytes of a directory entry name.
func encodeName(s string) []byte {
	var b []byte
	for _, r := range s {
		b = append(b, byte(r), 0)
	}
	return b
}
