package application

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/internal/fetch"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	var out bytes.Buffer
//	mock := &application.Mock{
//	    ResolverFunc: func(opts ...asnmap.Option) (*asnmap.Resolver, error) {
//	        return asnmap.New(append(opts, asnmap.WithFetcher(testFetcher))...)
//	    },
//	    Out: &out,
//	}
//	cmd := build.NewCommand(mock)
type Mock struct {
	ResolverFunc     func(opts ...asnmap.Option) (*asnmap.Resolver, error)
	FetchClientFunc  func() *fetch.Client
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	Out              io.Writer
}

// Resolver returns a resolver using the mock function or asnmap.New.
func (m *Mock) Resolver(opts ...asnmap.Option) (*asnmap.Resolver, error) {
	if m.ResolverFunc != nil {
		return m.ResolverFunc(opts...)
	}
	return asnmap.New(append([]asnmap.Option{asnmap.WithLogger(m.Logger())}, opts...)...)
}

// FetchClient returns a fetch client using the mock function or a default client.
func (m *Mock) FetchClient() *fetch.Client {
	if m.FetchClientFunc != nil {
		return m.FetchClientFunc()
	}
	return fetch.NewClient(fetch.WithLogger(m.Logger()))
}

// Logger returns a logger using the mock function or a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Stdout returns Out or os.Stdout.
func (m *Mock) Stdout() io.Writer {
	if m.Out != nil {
		return m.Out
	}
	return os.Stdout
}

// OutputFormat returns the output format using the mock function or "".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Application = (*Mock)(nil)
