package task

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestGateway(t *testing.T) *FileGateway {
	t.Helper()
	return NewFileGateway(filepath.Join(t.TempDir(), SaveFileName), nil)
}

func TestFileGateway_LoadMissingFile(t *testing.T) {
	gateway := newTestGateway(t)

	got := gateway.Load()

	if !reflect.DeepEqual(got, EmptySnapshot()) {
		t.Fatalf("expected empty snapshot, got %+v", got)
	}
}

func TestFileGateway_LoadCorruptFile(t *testing.T) {
	cases := map[string]string{
		"not json":         "{{{",
		"empty":            "",
		"null":             "null",
		"array":            "[]",
		"missing counter":  `{"tasks":[]}`,
		"missing tasks":    `{"id_counter":1}`,
		"null tasks":       `{"id_counter":1,"tasks":null}`,
		"unknown status":   `{"id_counter":1,"tasks":[{"id":1,"content":"a","status":"Paused"}]}`,
		"lowercase status": `{"id_counter":1,"tasks":[{"id":1,"content":"a","status":"new"}]}`,
		"missing content":  `{"id_counter":1,"tasks":[{"id":1,"status":"New"}]}`,
		"null content":     `{"id_counter":1,"tasks":[{"id":1,"content":null,"status":"New"}]}`,
		"missing id":       `{"id_counter":1,"tasks":[{"content":"a","status":"New"}]}`,
		"negative id":      `{"id_counter":1,"tasks":[{"id":-1,"content":"a","status":"New"}]}`,
		"counter overflow": `{"id_counter":4294967296,"tasks":[]}`,
		"string counter":   `{"id_counter":"1","tasks":[]}`,
		"null task":        `{"id_counter":1,"tasks":[null]}`,
		"upper-case keys":  `{"ID_COUNTER":3,"TASKS":[{"ID":3,"CONTENT":"x","STATUS":"Done"}]}`,
		"mixed-case field": `{"id_counter":1,"tasks":[{"Id":1,"content":"a","status":"New"}]}`,
		"invalid utf-8":    "{\"id_counter\":1,\"tasks\":[{\"id\":1,\"content\":\"a\xffb\",\"status\":\"New\"}]}",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			gateway := newTestGateway(t)
			if err := os.WriteFile(gateway.Path(), []byte(data), 0644); err != nil {
				t.Fatalf("write save file: %v", err)
			}

			got := gateway.Load()

			if !reflect.DeepEqual(got, EmptySnapshot()) {
				t.Fatalf("expected empty snapshot, got %+v", got)
			}
		})
	}
}

func TestFileGateway_LoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	// A directory at the save path cannot be read as a file.
	path := filepath.Join(dir, SaveFileName)
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := NewFileGateway(path, nil).Load()

	if !reflect.DeepEqual(got, EmptySnapshot()) {
		t.Fatalf("expected empty snapshot, got %+v", got)
	}
}

func TestFileGateway_RoundTrip(t *testing.T) {
	snapshots := map[string]Snapshot{
		"empty": EmptySnapshot(),
		"cleared store keeps counter": {IDCounter: 9, Tasks: []Task{}},
		"mixed": {IDCounter: 7, Tasks: []Task{
			{ID: 2, Content: "Call Bob", Status: StatusProgress},
			{ID: 3, Content: "", Status: StatusNew},
			{ID: 5, Content: "牛乳を買う 🥛", Status: StatusStop},
			{ID: 7, Content: `quotes "and" <html> & \ slashes`, Status: StatusDone},
			{ID: 6, Content: "line\nbreak\ttab", Status: StatusNew},
		}},
	}

	for name, snapshot := range snapshots {
		t.Run(name, func(t *testing.T) {
			gateway := newTestGateway(t)

			if err := gateway.Save(snapshot); err != nil {
				t.Fatalf("save: %v", err)
			}
			got := gateway.Load()

			if !reflect.DeepEqual(got, snapshot) {
				t.Fatalf("expected %+v, got %+v", snapshot, got)
			}
		})
	}
}

func TestFileGateway_SaveFormat(t *testing.T) {
	gateway := newTestGateway(t)

	err := gateway.Save(Snapshot{IDCounter: 2, Tasks: []Task{
		{ID: 2, Content: "Call <Bob> & 牛乳", Status: StatusProgress},
	}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(gateway.Path())
	if err != nil {
		t.Fatalf("read save file: %v", err)
	}

	want := `{"id_counter":2,"tasks":[{"id":2,"content":"Call <Bob> & 牛乳","status":"Progress"}]}` + "\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, string(data))
	}
}

func TestFileGateway_SaveNilTasksWritesEmptyArray(t *testing.T) {
	gateway := newTestGateway(t)

	if err := gateway.Save(Snapshot{IDCounter: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(gateway.Path())
	if err != nil {
		t.Fatalf("read save file: %v", err)
	}
	if string(data) != `{"id_counter":3,"tasks":[]}`+"\n" {
		t.Fatalf("unexpected save file %q", string(data))
	}
}

func TestFileGateway_SaveOverwrites(t *testing.T) {
	gateway := newTestGateway(t)

	big := Snapshot{IDCounter: 3, Tasks: []Task{
		{ID: 1, Content: "a long task that makes the file bigger", Status: StatusNew},
		{ID: 2, Content: "another long task", Status: StatusNew},
		{ID: 3, Content: "and one more", Status: StatusNew},
	}}
	if err := gateway.Save(big); err != nil {
		t.Fatalf("save: %v", err)
	}

	small := Snapshot{IDCounter: 3, Tasks: []Task{}}
	if err := gateway.Save(small); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := gateway.Load(); !reflect.DeepEqual(got, small) {
		t.Fatalf("expected %+v, got %+v", small, got)
	}

	entries, err := os.ReadDir(filepath.Dir(gateway.Path()))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the save file, found %d entries", len(entries))
	}
}

func TestFileGateway_SaveFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	// The parent of the save path is a regular file.
	gateway := NewFileGateway(filepath.Join(blocker, SaveFileName), nil)

	if err := gateway.Save(EmptySnapshot()); err == nil {
		t.Fatal("expected save to fail")
	}
}

func TestFileGateway_SaveRejectsUnknownStatus(t *testing.T) {
	gateway := newTestGateway(t)
	saved := Snapshot{IDCounter: 2, Tasks: []Task{
		{ID: 1, Content: "a", Status: StatusNew},
		{ID: 2, Content: "b", Status: StatusDone},
	}}
	if err := gateway.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	bad := Snapshot{IDCounter: 2, Tasks: []Task{
		{ID: 1, Content: "a", Status: Status("Bogus")},
		{ID: 2, Content: "b", Status: StatusDone},
	}}
	if err := gateway.Save(bad); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if got := gateway.Load(); !reflect.DeepEqual(got, saved) {
		t.Fatalf("expected previous save to survive, got %+v", got)
	}
}

func TestFileGateway_SaveRejectsIDAboveCounter(t *testing.T) {
	gateway := newTestGateway(t)

	err := gateway.Save(Snapshot{IDCounter: 1, Tasks: []Task{{ID: 5, Content: "a", Status: StatusNew}}})
	if err == nil {
		t.Fatal("expected save to fail")
	}
	if _, statErr := os.Stat(gateway.Path()); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no save file, got %v", statErr)
	}
}

func TestFileGateway_SaveKeepsFileMode(t *testing.T) {
	gateway := newTestGateway(t)

	if err := gateway.Save(EmptySnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(gateway.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Fatalf("expected new save file mode 0644, got %v", info.Mode().Perm())
	}

	if err := os.Chmod(gateway.Path(), 0640); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := gateway.Save(EmptySnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err = os.Stat(gateway.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0640 {
		t.Fatalf("expected mode 0640 to be kept, got %v", info.Mode().Perm())
	}
}

func TestFileGateway_SaveInReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	gateway := newTestGateway(t)
	if err := gateway.Save(EmptySnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	dir := filepath.Dir(gateway.Path())
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatalf("chmod dir: %v", err)
	}
	t.Cleanup(func() {
		os.Chmod(dir, 0755)
	})

	want := Snapshot{IDCounter: 1, Tasks: []Task{{ID: 1, Content: "a", Status: StatusNew}}}
	if err := gateway.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := gateway.Load(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestDecodeSnapshot_RaisesCounterToHighestID(t *testing.T) {
	data := []byte(`{"id_counter":1,"tasks":[{"id":4,"content":"a","status":"New"}]}`)

	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snapshot.IDCounter != 4 {
		t.Fatalf("expected counter 4, got %d", snapshot.IDCounter)
	}
}

func TestDecodeSnapshot_IgnoresUnknownFields(t *testing.T) {
	data := []byte(`{"id_counter":1,"extra":true,"tasks":[{"id":1,"content":"a","status":"Done","note":"x"}]}`)

	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Snapshot{IDCounter: 1, Tasks: []Task{{ID: 1, Content: "a", Status: StatusDone}}}
	if !reflect.DeepEqual(snapshot, want) {
		t.Fatalf("expected %+v, got %+v", want, snapshot)
	}
}
