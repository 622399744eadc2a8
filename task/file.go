package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/amonks/tasking/internal/log"
)

// SaveFileName is the name of the save file placed beside the executable.
const SaveFileName = "task.json"

// FileGateway persists snapshots to a single JSON file.
type FileGateway struct {
	path   string
	logger log.Logger
}

// NewFileGateway returns a gateway for the save file at path.
// A nil logger discards log output.
func NewFileGateway(path string, logger log.Logger) *FileGateway {
	if logger == nil {
		logger = log.Noop
	}
	return &FileGateway{
		path:   path,
		logger: logger.WithValues(log.Kv{"file": path}),
	}
}

// Path returns the save file path.
func (g *FileGateway) Path() string {
	return g.path
}

// Load reads the save file. A missing, unreadable or malformed file yields an
// empty snapshot.
func (g *FileGateway) Load() Snapshot {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, os.ErrNotExist) {
		g.logger.Debugf("no save file, starting empty")
		return EmptySnapshot()
	}
	if err != nil {
		g.logger.Debugf("ignoring unreadable save file: %v", err)
		return EmptySnapshot()
	}

	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		g.logger.Debugf("ignoring malformed save file: %v", err)
		return EmptySnapshot()
	}

	g.logger.Debugf("loaded %d tasks", len(snapshot.Tasks))
	return snapshot
}

// Save overwrites the save file with snapshot. A snapshot that could not be
// loaded back is rejected and the file is left untouched.
func (g *FileGateway) Save(snapshot Snapshot) error {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	mode := saveFileMode(g.path)

	// Write atomically via temp file
	tmpFile, err := os.CreateTemp(dir, filepath.Base(g.path)+".tmp")
	if errors.Is(err, fs.ErrPermission) {
		// The directory is read-only but the save file may still be writable.
		g.logger.Debugf("cannot create temp file, overwriting in place: %v", err)
		if err := os.WriteFile(g.path, data, mode); err != nil {
			return fmt.Errorf("write save file: %w", err)
		}
		g.logger.Debugf("saved %d tasks", len(snapshot.Tasks))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create temp save file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err == nil {
		err = tmpFile.Chmod(mode)
	}
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp save file: %w", err)
	}

	if err := os.Rename(name, g.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename save file: %w", err)
	}

	g.logger.Debugf("saved %d tasks", len(snapshot.Tasks))
	return nil
}

// saveFileMode returns the permissions of the existing save file, or 0644
// for a new one.
func saveFileMode(path string) fs.FileMode {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0644
	}
	return info.Mode().Perm()
}

// EncodeSnapshot renders snapshot in the save file format: compact JSON
// followed by a newline, with HTML characters left unescaped. Snapshots that
// fail ValidateSnapshot are rejected.
func EncodeSnapshot(snapshot Snapshot) ([]byte, error) {
	if err := ValidateSnapshot(snapshot); err != nil {
		return nil, err
	}
	if snapshot.Tasks == nil {
		snapshot.Tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonObject holds the raw members of a JSON object. Keys are matched
// exactly, unlike json.Unmarshal into a struct.
type jsonObject map[string]json.RawMessage

// field decodes the member named key into dst. A missing or null member is
// an error.
func (o jsonObject) field(key string, dst any) error {
	raw, ok := o[key]
	if !ok {
		return fmt.Errorf("missing field %s", key)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("field %s is null", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

// DecodeSnapshot parses the save file format. The data must be valid UTF-8,
// every field is required under its exact name and status literals must be
// known. Unknown fields are ignored. A counter lower than the largest id is
// raised to that id so future ids stay unique.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	if !utf8.Valid(data) {
		return Snapshot{}, errors.New("save file is not valid UTF-8")
	}

	var root jsonObject
	if err := json.Unmarshal(data, &root); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if root == nil {
		return Snapshot{}, errors.New("snapshot is null")
	}

	var snapshot Snapshot
	if err := root.field("id_counter", &snapshot.IDCounter); err != nil {
		return Snapshot{}, err
	}
	var items []jsonObject
	if err := root.field("tasks", &items); err != nil {
		return Snapshot{}, err
	}

	snapshot.Tasks = make([]Task, 0, len(items))
	for i, item := range items {
		if item == nil {
			return Snapshot{}, fmt.Errorf("task %d is null", i)
		}
		var t Task
		if err := item.field("id", &t.ID); err != nil {
			return Snapshot{}, fmt.Errorf("task %d: %w", i, err)
		}
		if err := item.field("content", &t.Content); err != nil {
			return Snapshot{}, fmt.Errorf("task %d: %w", i, err)
		}
		if err := item.field("status", &t.Status); err != nil {
			return Snapshot{}, fmt.Errorf("task %d: %w", i, err)
		}
		snapshot.Tasks = append(snapshot.Tasks, t)
		if t.ID > snapshot.IDCounter {
			snapshot.IDCounter = t.ID
		}
	}

	if err := ValidateSnapshot(snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}
