package discovery_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gruntwork-io/casper/internal/discovery"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, file := range files {
		path := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	}
}

func TestWalkOnlyDirectoriesWithConfigFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"main/main.tf",
		"fake/fake.txt",
		"vars/vars.tfvars",
		".git/main.tf",
		"json/main.tf.json",
	)

	dirs := discovery.New(root).Collect(log.New())

	assert.Equal(t, []string{
		filepath.Join(root, "json"),
		filepath.Join(root, "main"),
	}, dirs)
}

func TestWalkDepthFirstLexicographic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"main.tf",
		"b/main.tf",
		"a/main.tf",
		"a/z/main.tf",
		"a/c/main.tf",
		"a/c/d/variables.tf",
		"b/.terraform/modules/vpc/main.tf",
		"b/.terragrunt-cache/abc/main.tf",
	)

	dirs := discovery.New(root).Collect(log.New())

	assert.Equal(t, []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "c"),
		filepath.Join(root, "a", "c", "d"),
		filepath.Join(root, "a", "z"),
		filepath.Join(root, "b"),
	}, dirs)
}

func TestWalkExcludes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"live/main.tf",
		"legacy/main.tf",
		"legacy/nested/main.tf",
		"legacy-v2/main.tf",
		"modules/vpc/main.tf",
		"modules/legacy/main.tf",
	)

	dirs := discovery.New(root).WithExcludes("legacy*", "vpc").Collect(log.New())

	assert.Equal(t, []string{
		filepath.Join(root, "live"),
	}, dirs)
}

func TestWalkHiddenDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		".envs/prod/main.tf",
		".git/main.tf",
		"app/main.tf",
	)

	assert.Equal(t, []string{filepath.Join(root, "app")}, discovery.New(root).Collect(log.New()))

	assert.Equal(t, []string{
		filepath.Join(root, ".envs", "prod"),
		filepath.Join(root, "app"),
	}, discovery.New(root).WithHidden().Collect(log.New()))
}

func TestWalkStopsEarly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "a/main.tf", "b/main.tf", "c/main.tf")

	var visited []string

	for dir := range discovery.New(root).Walk(log.New()) {
		visited = append(visited, dir)
		if len(visited) == 2 {
			break
		}
	}

	assert.Equal(t, []string{filepath.Join(root, "a"), filepath.Join(root, "b")}, visited)
}

func TestWalkMissingRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "missing")

	assert.Empty(t, discovery.New(root).Collect(log.New()))
}

func TestWalkUnreadableDirectory(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permissions are not enforced")
	}

	root := t.TempDir()
	writeFiles(t, root, "locked/main.tf", "open/main.tf")

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	assert.Equal(t, []string{filepath.Join(root, "open")}, discovery.New(root).Collect(log.New()))
}

func TestWalkRelativeToBaseDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFiles(t, base, "temp/main/main.tf", "temp/other/notes.md", "temp/other/nested/main.tf.json")

	dirs := discovery.New("temp").WithBaseDir(base).Collect(log.New())

	assert.Equal(t, []string{
		filepath.Join("temp", "main"),
		filepath.Join("temp", "other", "nested"),
	}, dirs)

	dirs = discovery.New(".").WithBaseDir(filepath.Join(base, "temp")).Collect(log.New())
	assert.Equal(t, []string{"main", filepath.Join("other", "nested")}, dirs)

	dirs = discovery.New(filepath.Join(base, "temp")).WithBaseDir("/nonexistent").Collect(log.New())
	assert.Equal(t, []string{
		filepath.Join(base, "temp", "main"),
		filepath.Join(base, "temp", "other", "nested"),
	}, dirs, "absolute roots ignore the base directory")
}
