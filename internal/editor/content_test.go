package editor

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/amonks/tasking/task"
)

func TestParseContent(t *testing.T) {
	cases := []struct {
		name   string
		buffer string
		want   string
	}{
		{
			name:   "template round trip",
			buffer: RenderContent("Buy milk"),
			want:   "Buy milk",
		},
		{
			name:   "joins lines",
			buffer: "Call\n  Bob\n# comment\n",
			want:   "Call Bob",
		},
		{
			name:   "unicode",
			buffer: "牛乳を買う\n",
			want:   "牛乳を買う",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseContent(tc.buffer)
			if err != nil {
				t.Fatalf("ParseContent failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseContent_EmptyAborts(t *testing.T) {
	_, err := ParseContent(RenderContent(""))
	if !errors.Is(err, task.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestEditContent_UsesEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	body := "#!/bin/sh\nprintf 'Write report\\n# ignored\\n' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write editor script: %v", err)
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	got, err := EditContent("")
	if err != nil {
		t.Fatalf("EditContent failed: %v", err)
	}
	if got != "Write report" {
		t.Fatalf("expected %q, got %q", "Write report", got)
	}
}

func TestEditContent_EditorFailure(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "false")

	if _, err := EditContent("x"); !errors.Is(err, ErrEditorFailed) {
		t.Fatalf("expected ErrEditorFailed, got %v", err)
	}
}

func TestEditContent_MissingEditor(t *testing.T) {
	t.Setenv("VISUAL", filepath.Join(t.TempDir(), "no-such-editor"))

	if _, err := EditContent("x"); !errors.Is(err, ErrEditorFailed) {
		t.Fatalf("expected ErrEditorFailed, got %v", err)
	}
}

func TestEditContent_VisualWithArguments(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-visual")
	body := "#!/bin/sh\nprintf '%s\\n' \"$1\" > \"$2\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write editor script: %v", err)
	}
	t.Setenv("VISUAL", script+" Call-Bob")
	t.Setenv("EDITOR", "false")

	got, err := EditContent("")
	if err != nil {
		t.Fatalf("EditContent failed: %v", err)
	}
	if got != "Call-Bob" {
		t.Fatalf("expected %q, got %q", "Call-Bob", got)
	}
}

func TestCommand(t *testing.T) {
	cases := []struct {
		name   string
		visual string
		editor string
		want   []string
	}{
		{name: "visual wins", visual: "code --wait", editor: "nano", want: []string{"code", "--wait"}},
		{name: "editor", visual: " ", editor: "nano", want: []string{"nano"}},
		{name: "fallback", want: []string{"vi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("VISUAL", tc.visual)
			t.Setenv("EDITOR", tc.editor)

			if got := Command(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
