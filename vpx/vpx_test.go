package vpx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	verrors "github.com/surtarso/vpxinfo/errors"
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

func TestOpen(t *testing.T) {
	path := writeFixture(t, vpxtest.Table{Code: "' empty"})

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if f.Path() != path {
		t.Errorf("Path() = %q, want %q", f.Path(), path)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.vpx"))
	if !errors.Is(err, &verrors.Error{Phase: verrors.PhaseOpen, Kind: verrors.KindOpenFailed}) {
		t.Fatalf("expected open_failed, got %v", err)
	}
}

func TestOpen_NotACompoundDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.vpx")
	if err := os.WriteFile(path, make([]byte, 1024), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error for zeroed file")
	}
	if !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic in chain, got %v", err)
	}
}

func TestOpen_Truncated(t *testing.T) {
	full := vpxtest.Build(vpxtest.Table{Code: "' code"})

	for _, cut := range []int{0, 100, 600} {
		path := filepath.Join(t.TempDir(), "cut.vpx")
		if err := os.WriteFile(path, full[:cut], 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(path); err == nil {
			t.Errorf("cut=%d: expected error", cut)
		}
	}
}
