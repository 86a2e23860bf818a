package inventory_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/gateway"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type call struct {
	Dir  string
	Op   gateway.Operation
	Args []string
}

// fakeGateway answers list calls per directory and show calls per address.
type fakeGateway struct {
	lists map[string]string
	shows map[string]string
	calls []call
	mu    sync.Mutex
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		lists: make(map[string]string),
		shows: make(map[string]string),
	}
}

func (gw *fakeGateway) withList(dir, data string) *fakeGateway {
	gw.lists[dir] = data
	return gw
}

func (gw *fakeGateway) withShow(address, data string) *fakeGateway {
	gw.shows[address] = data
	return gw
}

func (gw *fakeGateway) Invoke(_ context.Context, dir string, op gateway.Operation, args ...string) gateway.Result {
	gw.mu.Lock()
	gw.calls = append(gw.calls, call{Dir: dir, Op: op, Args: slices.Clone(args)})
	gw.mu.Unlock()

	switch op {
	case gateway.List:
		if data, ok := gw.lists[dir]; ok {
			return gateway.Succeeded(data)
		}

		return gateway.Failed(errors.New("No state file was found!"))
	case gateway.Show:
		if data, ok := gw.shows[args[0]]; ok {
			return gateway.Succeeded(data)
		}

		return gateway.Failed(errors.New("No instance found for the given address!"))
	}

	return gateway.Failed(errors.Errorf("unexpected operation %s", op))
}

func (gw *fakeGateway) Calls() []call {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	return slices.Clone(gw.calls)
}

type memoryStore struct {
	err   error
	saved []*inventory.State
	mu    sync.Mutex
}

func (store *memoryStore) Save(_ context.Context, state *inventory.State) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.saved = append(store.saved, state)

	return store.err
}

func loadSample(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return string(data)
}

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, file := range files {
		path := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))
	}
}

func newTestLogger() (log.Logger, *test.Hook) {
	hook := test.NewLocal(logrus.New())

	return log.New(log.WithOutput(io.Discard), log.WithLevel(log.TraceLevel), log.WithHooks(hook)), hook
}

type logLine struct {
	Level   logrus.Level
	Message string
}

// anomalies returns the warning and debug entries, in order.
func anomalies(hook *test.Hook) []logLine {
	var lines []logLine

	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel || entry.Level == logrus.DebugLevel {
			lines = append(lines, logLine{Level: entry.Level, Message: entry.Message})
		}
	}

	return lines
}

func stateOf(groups ...any) *inventory.State {
	state := inventory.NewState()

	for i := 0; i+1 < len(groups); i += 2 {
		for _, id := range groups[i+1].([]string) {
			state.Add(groups[i].(string), id)
		}
	}

	return state
}
