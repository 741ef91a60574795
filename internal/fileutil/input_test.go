package fileutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"

	lyrerrors "github.com/FocuswithJustin/Lyrebird/core/errors"
)

func xzCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter failed: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return buf.Bytes()
}

func TestReadInputPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tune.abc")
	content := "X:1\nT:Plain\nK:C\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadInput(path)
	if err != nil {
		t.Fatalf("ReadInput failed: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}
}

func TestReadInputXZ(t *testing.T) {
	content := "X:1\nT:Compressed\nK:G\n"
	path := filepath.Join(t.TempDir(), "tune.abc.xz")
	if err := os.WriteFile(path, xzCompress(t, []byte(content)), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadInput(path)
	if err != nil {
		t.Fatalf("ReadInput failed: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}
}

func TestReadInputMissing(t *testing.T) {
	_, err := ReadInput(filepath.Join(t.TempDir(), "nope.abc"))
	if err == nil {
		t.Fatal("missing file should fail")
	}
	if !errors.Is(err, lyrerrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDecompressCorruptXZ(t *testing.T) {
	data := append(append([]byte{}, 0xFD, '7', 'z', 'X', 'Z', 0x00), []byte("garbage")...)
	if _, err := Decompress(data); err == nil {
		t.Error("corrupt xz payload should fail")
	}
}

func TestDecompressPassthrough(t *testing.T) {
	data := []byte("no magic here")
	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("plain data must pass through unchanged")
	}
}
