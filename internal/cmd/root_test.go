package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Digital-Shane/tvrename/internal/provider"
)

type stubCatalog struct {
	series  map[string]*provider.Series
	lookups []string
}

func (s *stubCatalog) Name() string { return "stub" }
func (s *stubCatalog) Description() string { return "stub catalog" }
func (s *stubCatalog) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{Localized: true}
}

func (s *stubCatalog) Configure(config map[string]interface{}) error { return nil }

func (s *stubCatalog) Lookup(_ context.Context, show, language string) (*provider.Series, error) {
	s.lookups = append(s.lookups, show+"/"+language)
	if series, ok := s.series[show]; ok {
		return series, nil
	}
	return nil, &provider.ProviderError{Provider: "stub", Code: provider.CodeNotFound, Message: "no results found for show: " + show}
}

type cliEnv struct {
	home    string
	dir     string
	catalog *stubCatalog
	gotKey  string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".tvdb_api_key"), []byte("tvdb-key\n"), 0600); err != nil {
		t.Fatal(err)
	}

	return &cliEnv{
		home: home,
		dir:  t.TempDir(),
		catalog: &stubCatalog{series: map[string]*provider.Series{
			"Show Name": {Name: "Show Name", Episodes: []provider.Episode{
				{Title: "Pilot", Season: 1, Number: 1},
				{Title: "The Beginning", Season: 1, Number: 2},
				{Title: "Der Anfang", Season: 2, Number: 1},
				{Title: "Der Anfang (2)", Season: 2, Number: 2},
			}},
		}},
	}
}

func (e *cliEnv) file(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(e.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(rel), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	var out, errOut bytes.Buffer
	d := deps{
		stdin:  strings.NewReader(stdin),
		stdout: &out,
		stderr: &errOut,
		args:   args,
		newProvider: func(name, apiKey string) (provider.Provider, error) {
			e.gotKey = apiKey
			return e.catalog, nil
		},
	}
	err := newRootCommand(d).ExecuteContext(context.Background())
	return out.String(), err
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestRootDryRun(t *testing.T) {
	env := newCLIEnv(t)
	src := env.file(t, "Show_Name/pilot.mkv")

	out, err := env.run(t, "", "--dry-run", src)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}

	if first, _, _ := strings.Cut(out, "\n"); !strings.Contains(first, "*** Dry run only ***") {
		t.Errorf("output does not start with dry-run banner:\n%s", out)
	}
	if !strings.Contains(out, `"pilot.mkv" -> "Show Name - S01E01 - Pilot.mkv"`) {
		t.Errorf("planned rename missing:\n%s", out)
	}
	if !exists(src) {
		t.Error("dry run renamed the file")
	}
	if env.gotKey != "tvdb-key" {
		t.Errorf("api key = %q, want trimmed file contents", env.gotKey)
	}
	if len(env.catalog.lookups) != 1 || env.catalog.lookups[0] != "Show Name/de" {
		t.Errorf("lookups = %v, want [Show Name/de]", env.catalog.lookups)
	}
}

func TestRootRenamesWithSeparatorAndLanguage(t *testing.T) {
	env := newCLIEnv(t)
	src := env.file(t, "Show Name - pilot.mkv")

	out, err := env.run(t, "", "-l", "en", src)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}
	if !exists(filepath.Join(env.dir, "Show Name - S01E01 - Pilot.mkv")) || exists(src) {
		t.Errorf("file not renamed:\n%s", out)
	}
	if env.catalog.lookups[0] != "Show Name/en" {
		t.Errorf("lookup = %q, want language en", env.catalog.lookups[0])
	}
}

func TestRootResolvesTieFromInput(t *testing.T) {
	env := newCLIEnv(t)
	src := env.file(t, "anfang.mkv")

	out, err := env.run(t, "7\n1\n", "--show", "Show Name", src)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}

	if !strings.Contains(out, "Found multiple candidates for anfang.mkv:") ||
		!strings.Contains(out, "0) S02E01: Der Anfang") ||
		!strings.Contains(out, "1) S02E02: Der Anfang (2)") {
		t.Errorf("candidate list missing:\n%s", out)
	}
	if strings.Count(out, "Choose correct episode (0-1/skip/abort)?") != 2 {
		t.Errorf("invalid answer was not re-asked:\n%s", out)
	}
	if !exists(filepath.Join(env.dir, "Show Name - S02E02 - Der Anfang (2).mkv")) {
		t.Errorf("selected candidate not applied:\n%s", out)
	}
}

func TestRootAbortAtConfirm(t *testing.T) {
	env := newCLIEnv(t)
	first := env.file(t, "Show_Name/pilot.mkv")
	second := env.file(t, "Show_Name/beginning.mkv")

	out, err := env.run(t, "abort\n", "--ask", first, second)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}
	if !exists(first) || !exists(second) {
		t.Error("files renamed after abort")
	}
	if strings.Contains(out, "beginning.mkv\" ->") {
		t.Errorf("second file processed after abort:\n%s", out)
	}
}

func TestRootReportsNonRegularFiles(t *testing.T) {
	env := newCLIEnv(t)
	missing := filepath.Join(env.dir, "missing.mkv")

	out, err := env.run(t, "", missing, env.dir)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}
	for _, p := range []string{missing, env.dir} {
		if !strings.Contains(out, p+" is not a regular file, skipping.") {
			t.Errorf("missing skip line for %s:\n%s", p, out)
		}
	}
	if len(env.catalog.lookups) != 0 {
		t.Errorf("catalog queried without input files: %v", env.catalog.lookups)
	}
}

func TestRootErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, env *cliEnv)
		args    func(env *cliEnv, src string) []string
		wantErr string
	}{
		{
			name:    "no files",
			args:    func(*cliEnv, string) []string { return nil },
			wantErr: "requires at least 1 arg",
		},
		{
			name:    "empty separator",
			args:    func(_ *cliEnv, src string) []string { return []string{"-S", "", src} },
			wantErr: "separator must not be empty",
		},
		{
			name:    "bad language",
			args:    func(_ *cliEnv, src string) []string { return []string{"-l", "??", src} },
			wantErr: "invalid language",
		},
		{
			name:    "unknown provider",
			args:    func(_ *cliEnv, src string) []string { return []string{"-p", "imdb", src} },
			wantErr: "unknown provider",
		},
		{
			name: "missing api key",
			setup: func(t *testing.T, env *cliEnv) {
				if err := os.Remove(filepath.Join(env.home, ".tvdb_api_key")); err != nil {
					t.Fatal(err)
				}
			},
			args:    func(_ *cliEnv, src string) []string { return []string{src} },
			wantErr: "read tvdb API key",
		},
		{
			name:    "catalog failure",
			args:    func(_ *cliEnv, src string) []string { return []string{"-s", "Unknown Show", src} },
			wantErr: `look up "Unknown Show"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			src := env.file(t, "Show_Name/pilot.mkv")
			if tt.setup != nil {
				tt.setup(t, env)
			}

			out, err := env.run(t, "", tt.args(env, src)...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run() error = %v, want containing %q\n%s", err, tt.wantErr, out)
			}
		})
	}
}

func TestRootConfigFile(t *testing.T) {
	env := newCLIEnv(t)
	src := env.file(t, "Show Name _ pilot.mkv")

	cfgPath := filepath.Join(env.home, ".tvrename", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("separator: \" _ \"\nlanguage: fr\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := env.run(t, "", "--dry-run", src)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}
	if env.catalog.lookups[0] != "Show Name/fr" {
		t.Errorf("lookup = %q, want settings file values", env.catalog.lookups[0])
	}

	// Flags win over the settings file.
	env.catalog.lookups = nil
	if _, err := env.run(t, "", "--dry-run", "-l", "it", src); err != nil {
		t.Fatal(err)
	}
	if env.catalog.lookups[0] != "Show Name/it" {
		t.Errorf("lookup = %q, want flag value", env.catalog.lookups[0])
	}
}
