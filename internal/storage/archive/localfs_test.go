// internal/storage/archive/localfs_test.go
package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/newthinker/fxsignals/internal/core"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
}

func TestLocalFS_WriteRead(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte("workbook bytes")

	if err := fs.Write(ctx, "forex-signals-2020-01-01-2020-01-31.xlsx", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := fs.Read(ctx, "forex-signals-2020-01-01-2020-01-31.xlsx")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}

	if _, err := os.Stat(filepath.Join(dir, "forex-signals-2020-01-01-2020-01-31.xlsx.tmp")); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after write")
	}
}

func TestLocalFS_WriteOverwrites(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "a.xlsx", []byte("first"))
	fs.Write(ctx, "a.xlsx", []byte("second"))

	got, _ := fs.Read(ctx, "a.xlsx")
	if string(got) != "second" {
		t.Errorf("got %q, want second", got)
	}
}

func TestLocalFS_ReadMissing(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())

	_, err := fs.Read(context.Background(), "missing.xlsx")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalFS_Exists(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	exists, _ := fs.Exists(ctx, "nonexistent.xlsx")
	if exists {
		t.Error("expected false for nonexistent file")
	}

	fs.Write(ctx, "exists.xlsx", []byte("data"))
	exists, _ = fs.Exists(ctx, "exists.xlsx")
	if !exists {
		t.Error("expected true for existing file")
	}
}

func TestLocalFS_List(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	fs.Write(ctx, "b.xlsx", []byte("b"))
	fs.Write(ctx, "a.xlsx", []byte("a"))
	os.Mkdir(filepath.Join(dir, "nested"), 0755)

	names, err := fs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(names) != 2 || names[0] != "a.xlsx" || names[1] != "b.xlsx" {
		t.Errorf("expected [a.xlsx b.xlsx], got %v", names)
	}
}

func TestLocalFS_RejectsTraversal(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "..", "../escape.xlsx", "sub/file.xlsx", `sub\file.xlsx`} {
		if err := fs.Write(ctx, name, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", name)
		}
		if _, err := fs.Read(ctx, name); err == nil {
			t.Errorf("Read(%q) should fail", name)
		}
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	st, err := New(Config{Type: TypeLocalFS, Path: dir})
	if err != nil {
		t.Fatalf("New localfs: %v", err)
	}
	if _, ok := st.(*LocalFS); !ok {
		t.Errorf("expected *LocalFS, got %T", st)
	}

	st, err = New(Config{Type: TypeS3, S3: S3Config{Bucket: "exports", Region: "us-east-1"}})
	if err != nil {
		t.Fatalf("New s3: %v", err)
	}
	if _, ok := st.(*S3Storage); !ok {
		t.Errorf("expected *S3Storage, got %T", st)
	}

	if _, err := New(Config{Type: "ftp"}); !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid, got %v", err)
	}

	if _, err := New(Config{Type: TypeS3}); !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("expected ErrConfigMissing for missing bucket, got %v", err)
	}
}
