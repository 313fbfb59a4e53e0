package cmdexec

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
)

// Call records one invocation of the fake runner
type Call struct {
	Name string
	Args []string
}

// String returns the command line of the call
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type fakeResult struct {
	prefix string
	output []byte
	err    error
}

// Fake is an in-memory CommandRunner. Responses are registered by command line
// prefix; the longest matching prefix wins and later registrations override
// earlier ones with the same prefix.
type Fake struct {
	mu      sync.Mutex
	results []fakeResult
	calls   []Call
}

// NewFake creates an empty fake runner
func NewFake() *Fake {
	return &Fake{}
}

// On registers the output returned for commands starting with prefix
func (f *Fake) On(prefix, output string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fakeResult{prefix: prefix, output: []byte(output)})
	return f
}

// Fail registers a failure for commands starting with prefix
func (f *Fake) Fail(prefix, stderr string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fakeResult{
		prefix: prefix,
		err: goerr.Wrap(types.ErrCommandFailed, "command failed",
			goerr.V("command", prefix),
			goerr.V("stderr", stderr),
		),
	})
	return f
}

// Calls returns every recorded invocation in order
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Run returns the registered response for the command
func (f *Fake) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: append([]string(nil), args...)}
	f.calls = append(f.calls, call)

	cmdline := call.String()
	var matched *fakeResult
	for i := range f.results {
		r := &f.results[i]
		if strings.HasPrefix(cmdline, r.prefix) && (matched == nil || len(r.prefix) >= len(matched.prefix)) {
			matched = r
		}
	}

	if matched == nil {
		return nil, goerr.Wrap(types.ErrCommandFailed, "unexpected command", goerr.V("command", cmdline))
	}
	return matched.output, matched.err
}
