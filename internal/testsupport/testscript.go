package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/tasking/task"
	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce   sync.Once
	taskingPath string
	buildErr    error
)

// BuildTasking builds the tasking binary once and returns its path.
func BuildTasking(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "tasking-bin-")
		if err != nil {
			buildErr = err
			return
		}

		taskingPath = filepath.Join(binDir, "tasking")
		cmd := exec.Command("go", "build", "-o", taskingPath, "./cmd/tasking")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build tasking: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return taskingPath
}

// SetupScriptEnv configures common environment variables for testscript.
// The binary is copied into the script's work directory so that the save
// file beside the executable lands there too.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	binDir := filepath.Join(env.WorkDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(BuildTasking(t))
	if err != nil {
		return err
	}
	binPath := filepath.Join(binDir, "tasking")
	if err := os.WriteFile(binPath, data, 0o755); err != nil {
		return err
	}
	env.Setenv("TASKING", binPath)
	env.Setenv("BIN", binDir)
	env.Setenv("NO_COLOR", "1")

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskID finds a task by content in a JSON task list and stores its ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE CONTENT VAR")
	}

	var items []task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	content := args[1]
	for _, item := range items {
		if item.Content == content {
			ts.Setenv(args[2], strconv.FormatUint(uint64(item.ID), 10))
			return
		}
	}

	ts.Fatalf("task with content %q not found", content)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
