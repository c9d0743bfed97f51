package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/meldgrid/pkg/config"
	"github.com/matzehuels/meldgrid/pkg/errors"
)

func TestStoreCommands(t *testing.T) {
	dir := isolate(t)

	res := mustRun(t, "store", "list")
	if !strings.Contains(res.ui, "No stored documents") {
		t.Errorf("empty list = %q", res.ui)
	}

	script := writeFile(t, dir, "script.json", `[{"op": "add", "layout": {"x": 1, "y": 1, "w": 2, "h": 2}}]`)
	mustRun(t, "grid", "apply", script, "--store", "ops")
	mustRun(t, "tree", "new", "--store", "ideas")

	res = mustRun(t, "store", "list")
	for _, want := range []string{"Kind", "grid", "ops", "tree", "ideas"} {
		if !strings.Contains(res.out, want) {
			t.Errorf("list missing %q:\n%s", want, res.out)
		}
	}
	res = mustRun(t, "store", "list", "grid")
	if strings.Contains(res.out, "ideas") {
		t.Errorf("grid list shows trees:\n%s", res.out)
	}

	res = mustRun(t, "store", "get", "grid", "ops")
	if !strings.Contains(res.out, `"itemIdCounter": 1`) || !strings.HasSuffix(res.out, "\n") {
		t.Errorf("get = %q", res.out)
	}

	res = mustRun(t, "store", "delete", "tree", "ideas")
	if !strings.Contains(res.ui, `Deleted tree "ideas"`) {
		t.Errorf("delete status = %q", res.ui)
	}
	res = mustRun(t, "store", "delete", "tree", "ideas")
	if !strings.Contains(res.ui, "does not exist") {
		t.Errorf("second delete status = %q", res.ui)
	}

	_, err := runCLI(t, "store", "get", "tree", "ideas")
	expectCode(t, err, errors.ErrCodeNotFound)
	_, err = runCLI(t, "store", "get", "chart", "ops")
	expectCode(t, err, errors.ErrCodeInvalidInput)
	_, err = runCLI(t, "store", "get", "grid", "..")
	expectCode(t, err, errors.ErrCodeInvalidName)
	if _, err := runCLI(t, "store", "list", "chart"); err == nil {
		t.Error("list accepted an unknown kind")
	}
}

func TestStorePath(t *testing.T) {
	dir := isolate(t)

	res := mustRun(t, "store", "path")
	if !strings.Contains(res.ui, "file") || !strings.Contains(res.ui, filepath.Join(dir, "store")) {
		t.Errorf("file backend path = %q", res.ui)
	}

	t.Setenv(config.EnvStoreBackend, "mongo")
	t.Setenv(config.EnvMongoURI, "mongodb://admin:secret@db:27017")
	res = mustRun(t, "store", "path")
	if strings.Contains(res.ui, "secret") {
		t.Errorf("store path leaked credentials: %q", res.ui)
	}
	if !strings.Contains(res.ui, "collection") {
		t.Errorf("mongo path = %q", res.ui)
	}

	t.Setenv(config.EnvStoreBackend, "null")
	res = mustRun(t, "store", "path")
	if !strings.Contains(res.ui, "discarded") {
		t.Errorf("null path = %q", res.ui)
	}
}

func TestStoreScope(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "script.json", `[]`)

	t.Setenv(config.EnvStoreScope, "alice")
	mustRun(t, "grid", "apply", script, "--store", "mine")

	t.Setenv(config.EnvStoreScope, "bob")
	res := mustRun(t, "store", "list")
	if strings.Contains(res.out, "mine") {
		t.Errorf("scope bob sees alice's grid:\n%s", res.out)
	}
	_, err := runCLI(t, "grid", "svg", "--store", "mine")
	expectCode(t, err, errors.ErrCodeNotFound)
}
