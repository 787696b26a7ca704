package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"matbench/internal/benchmark"
	"matbench/internal/config"
	"matbench/internal/notify"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs root with args and returns everything written to its
// stdout and stderr. A non-zero exit is reported as an "exit-N" error.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	resetFlags(root)

	b := new(bytes.Buffer)
	oldExit := exit
	exit = func(code int) {
		if code != 0 {
			panic(fmt.Sprintf("exit-%d", code))
		}
	}
	defer func() { exit = oldExit }()
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok && strings.HasPrefix(s, "exit-") {
				output, err = b.String(), fmt.Errorf("%s", s)
				return
			}
			panic(r) // Re-panic actual panics
		}
	}()

	root.SetArgs(args)
	root.SetOut(b)
	root.SetErr(b)
	root.SetIn(bytes.NewBufferString(""))
	err = root.Execute()
	return b.String(), err
}

// resetFlags resets all flags to their default values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// useFakes swaps the memory sampler and notifier factories for the duration
// of the test. The sampler reports a fixed 42.5MB.
func useFakes(t *testing.T) *recordingNotifier {
	t.Helper()
	notifier := &recordingNotifier{}

	oldMemory, oldNotifier := memorySamplerFactory, notifierFactory
	memorySamplerFactory = func() (benchmark.MemorySampler, error) {
		return benchmark.MemorySamplerFunc(func() (float64, error) { return 42.5, nil }), nil
	}
	notifierFactory = func(config.Settings) notify.Notifier { return notifier }
	t.Cleanup(func() {
		memorySamplerFactory, notifierFactory = oldMemory, oldNotifier
	})
	return notifier
}
