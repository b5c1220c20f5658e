package cmd

import (
	"io"
	"os"

	"github.com/Digital-Shane/tvrename/internal/provider"
	builtins "github.com/Digital-Shane/tvrename/internal/provider/init"
	"github.com/mattn/go-isatty"
)

// deps are the process resources the commands use, swapped out in tests.
type deps struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	args   []string

	// newProvider returns a configured catalog backend.
	newProvider func(name, apiKey string) (provider.Provider, error)
}

func defaultDeps() deps {
	return deps{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		args:        os.Args[1:],
		newProvider: configuredProvider,
	}
}

func configuredProvider(name, apiKey string) (provider.Provider, error) {
	if err := builtins.LoadBuiltinProviders(); err != nil {
		return nil, err
	}
	if err := provider.GlobalRegistry.Configure(name, map[string]interface{}{"api_key": apiKey}); err != nil {
		return nil, err
	}
	return provider.GlobalRegistry.Configured(name)
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (d deps) interactive() bool {
	return isTerminal(d.stdin) && isTerminal(d.stdout)
}
