package cli

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	err := Execute(context.Background(), args, &out, &logs)
	return logs.String(), err
}

func TestSnapshotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.png")
	logs, err := execute(t, "snapshot", "--seed", "7", "-o", path)
	if err != nil {
		t.Fatalf("snapshot: %v\n%s", err, logs)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("bounds = %v, want 300x300", b)
	}
	if !strings.Contains(logs, "seed=7") {
		t.Errorf("logs do not report the seed: %q", logs)
	}
}

func TestSnapshotGIFWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "blobby.toml")
	body := "[canvas]\nwidth = 40\nheight = 30\n\n[blob]\nvertices = 24\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "blob.gif")

	if logs, err := execute(t, "snapshot", "-c", cfgPath, "--seed", "1", "-o", out, "-n", "4"); err != nil {
		t.Fatalf("snapshot: %v\n%s", err, logs)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 4 {
		t.Errorf("frames = %d, want 4", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("bounds = %v, want 40x30", b)
	}
}

func TestSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[blob]\nvertices = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad extension", []string{"snapshot", "-o", filepath.Join(dir, "blob.jpg")}, ".png or .gif"},
		{"zero frames", []string{"snapshot", "-o", filepath.Join(dir, "a.png"), "-n", "0"}, "frames"},
		{"invalid config", []string{"snapshot", "-c", bad, "-o", filepath.Join(dir, "b.png")}, "vertices"},
		{"extra args", []string{"snapshot", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerboseLogsDebug(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "blobby.toml")
	if err := os.WriteFile(cfgPath, []byte("[canvas]\nwidth = 20\nheight = 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logs, err := execute(t, "-v", "-c", cfgPath, "snapshot", "--seed", "2", "-o", filepath.Join(dir, "x.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "loaded config") {
		t.Errorf("debug line missing from %q", logs)
	}
}

func TestWriteOutputRemovesFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.png")
	err := writeOutput(path, func(w io.Writer) error {
		if _, err := w.Write([]byte("partial")); err != nil {
			return err
		}
		return errors.New("encode failed")
	})
	if err == nil || !strings.Contains(err.Error(), "encode failed") {
		t.Fatalf("writeOutput() = %v, want encode failure", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("partial output left behind: stat error = %v", statErr)
	}
}

func TestWriteOutputKeepsFileOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.png")
	err := writeOutput(path, func(w io.Writer) error {
		_, err := w.Write([]byte("ok"))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "ok" {
		t.Errorf("output = %q, %v", data, err)
	}
}
