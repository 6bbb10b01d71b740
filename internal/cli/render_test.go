package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/percolator/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to png", "", []string{"png"}},
		{"single format", "json", []string{"json"}},
		{"multiple formats", "png,json,txt", []string{"png", "json", "txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		output  string
		want    map[string]string
	}{
		{"default single", []string{"png"}, "", map[string]string{"png": "lattice.png"}},
		{"explicit single", []string{"png"}, "out/grid.image", map[string]string{"png": "out/grid.image"}},
		{"default multiple", []string{"png", "json"}, "", map[string]string{"png": "lattice.png", "json": "lattice.json"}},
		{"base with format extension", []string{"png", "txt"}, "grid.png", map[string]string{"png": "grid.png", "txt": "grid.txt"}},
		{"base with other extension", []string{"png", "txt"}, "grid.v2", map[string]string{"png": "grid.v2.png", "txt": "grid.v2.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.formats, tt.output); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths(%v, %q) = %v, want %v", tt.formats, tt.output, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"txt": []byte("10\n00"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"txt", "json"}, filepath.Join(dir, "grid"))
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "grid.txt"), filepath.Join(dir, "grid.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	got, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "10\n00" {
		t.Errorf("grid.txt = %q", got)
	}
}

func TestWriteArtifactsRejectsTraversal(t *testing.T) {
	_, err := writeArtifacts(map[string][]byte{"txt": nil}, []string{"txt"}, "../escape.txt")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("writeArtifacts() error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "grid")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{
		"render", "--no-cache",
		"--width", "5", "--height", "4", "-p", "1", "--seed", "3",
		"-f", "png,txt", "-o", out,
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	png, err := os.ReadFile(out + ".png")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("grid.png is not a PNG")
	}
	txt, err := os.ReadFile(out + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	want := "33332\n33332\n33332\n11110"
	if string(txt) != want {
		t.Errorf("grid.txt = %q, want %q", txt, want)
	}
}

func TestRenderCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "percolator.toml")
	if err := os.WriteFile(cfg, []byte("[lattice]\nwidth = 3\nheight = 2\nprobability = 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "grid.txt")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", "--config", cfg, "--no-cache", "-f", "txt", "-o", out})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	txt, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(txt) != "332\n110" {
		t.Errorf("grid.txt = %q, want %q", txt, "332\n110")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "--no-cache", "-f", "gif", "-o", filepath.Join(t.TempDir(), "x")})
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(io.Discard, LogInfo)
			root := c.RootCommand()
			root.SetOut(&buf)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(appName)) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}
