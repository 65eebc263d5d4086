package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func validOptions() Options {
	o := Defaults()
	o.GritDir = "/gen"
	o.IntDir = "/int"
	o.ShareIntDir = "/shared"
	return o
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		locales []string
		wantErr bool
	}{
		{name: "valid repack", mutate: func(o *Options) {}, locales: []string{"da"}},
		{name: "valid inputs listing", mutate: func(o *Options) { o.PrintInputs = true }, locales: []string{"da"}},
		{name: "no locales", mutate: func(o *Options) {}, wantErr: true},
		{name: "missing grit dir", mutate: func(o *Options) { o.GritDir = "" }, locales: []string{"da"}, wantErr: true},
		{name: "missing int dir", mutate: func(o *Options) { o.IntDir = "" }, locales: []string{"da"}, wantErr: true},
		{name: "missing shared dir", mutate: func(o *Options) { o.ShareIntDir = "" }, locales: []string{"da"}, wantErr: true},
		{name: "both listings", mutate: func(o *Options) { o.PrintInputs, o.PrintOutputs = true, true }, locales: []string{"da"}, wantErr: true},
		{name: "bad pak version", mutate: func(o *Options) { o.PakVersion = 3 }, locales: []string{"da"}, wantErr: true},
	}

	for _, tc := range tests {
		o := validOptions()
		tc.mutate(&o)
		err := o.Validate(tc.locales)
		if !tc.wantErr {
			if err != nil {
				t.Fatalf("%s: Validate() error = %v", tc.name, err)
			}
			continue
		}
		var usageErr *UsageError
		if !errors.As(err, &usageErr) {
			t.Fatalf("%s: Validate() = %v, want *UsageError", tc.name, err)
		}
	}
}

func TestValidateReportsLocalesFirst(t *testing.T) {
	err := Options{}.Validate(nil)
	if err == nil || err.Error() != "Please specify at least one locale to process." {
		t.Fatalf("Validate() = %v, want locale error", err)
	}
}

func TestDefaultOS(t *testing.T) {
	tests := map[string]string{
		"darwin":  "mac",
		"linux":   "linux",
		"windows": "win",
		"freebsd": "freebsd",
	}
	for goos, want := range tests {
		if got := DefaultOS(goos); got != want {
			t.Fatalf("DefaultOS(%q) = %q, want %q", goos, got, want)
		}
	}
}

func TestDirs(t *testing.T) {
	d := validOptions().Dirs()
	if d.GritDir != "/gen" || d.IntDir != "/int" || d.ShareIntDir != "/shared" {
		t.Fatalf("Dirs() = %+v", d)
	}
}

func TestLoadRepakFileDefaultsAndValidation(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		rf, err := LoadRepakFile(filepath.Join(t.TempDir(), RepakFileName))
		if err != nil || rf != nil {
			t.Fatalf("LoadRepakFile(missing) = %v, %v; want nil, nil", rf, err)
		}
	})

	t.Run("relative paths resolved from config dir", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, RepakFileName)
		content := "pak_version: 5\nwhitelist: ids.txt\nlock_file: /abs/repak.lock\nos: linux\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		rf, err := LoadRepakFile(path)
		if err != nil {
			t.Fatalf("LoadRepakFile: %v", err)
		}
		if rf.PakVersion != 5 {
			t.Fatalf("PakVersion = %d, want 5", rf.PakVersion)
		}
		if want := filepath.Join(dir, "ids.txt"); rf.Whitelist != want {
			t.Fatalf("Whitelist = %q, want %q", rf.Whitelist, want)
		}
		if rf.LockFile != "/abs/repak.lock" {
			t.Fatalf("LockFile = %q, want absolute path kept", rf.LockFile)
		}
		if rf.Path() != path {
			t.Fatalf("Path() = %q, want %q", rf.Path(), path)
		}
	})

	t.Run("invalid pak version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), RepakFileName)
		if err := os.WriteFile(path, []byte("pak_version: 7\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := LoadRepakFile(path); err == nil {
			t.Fatal("LoadRepakFile should reject pak_version 7")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), RepakFileName)
		if err := os.WriteFile(path, []byte("pak_version: [\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := LoadRepakFile(path); err == nil {
			t.Fatal("LoadRepakFile should fail on malformed yaml")
		}
	})
}

func isolateXDG(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(home, "etc"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return filepath.Join(home, "config")
}

func TestFindRepakFile(t *testing.T) {
	t.Run("project file wins over user file", func(t *testing.T) {
		configHome := isolateXDG(t)
		writeConfig(t, filepath.Join(configHome, "repak", "config.yaml"), "pak_version: 4\n")
		dir := t.TempDir()
		writeConfig(t, filepath.Join(dir, RepakFileName), "pak_version: 5\n")

		rf, err := FindRepakFile("", dir)
		if err != nil {
			t.Fatalf("FindRepakFile: %v", err)
		}
		if rf == nil || rf.PakVersion != 5 {
			t.Fatalf("FindRepakFile() = %+v, want project config", rf)
		}
	})

	t.Run("falls back to user config", func(t *testing.T) {
		configHome := isolateXDG(t)
		writeConfig(t, filepath.Join(configHome, "repak", "config.yaml"), "os: win\n")

		rf, err := FindRepakFile("", t.TempDir())
		if err != nil {
			t.Fatalf("FindRepakFile: %v", err)
		}
		if rf == nil || rf.OS != "win" {
			t.Fatalf("FindRepakFile() = %+v, want user config", rf)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		isolateXDG(t)
		rf, err := FindRepakFile("", t.TempDir())
		if err != nil || rf != nil {
			t.Fatalf("FindRepakFile() = %v, %v; want nil, nil", rf, err)
		}
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		isolateXDG(t)
		if _, err := FindRepakFile(filepath.Join(t.TempDir(), "nope.yaml"), "."); err == nil {
			t.Fatal("FindRepakFile should fail for a missing explicit file")
		}
	})
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestApplyKeepsExplicitFlags(t *testing.T) {
	rf := &RepakFile{OS: "win", PakVersion: 5, Whitelist: "/w.txt", SuppressRemovedKeys: true, LockFile: "/l.lock", Verbosity: 2}

	explicit := map[string]bool{"os": true, "pak-version": true}
	o := validOptions()
	o.OS = "linux"
	got := rf.Apply(o, func(flag string) bool { return explicit[flag] })

	if got.OS != "linux" {
		t.Fatalf("OS = %q, want explicit flag kept", got.OS)
	}
	if got.PakVersion != 4 {
		t.Fatalf("PakVersion = %d, want explicit default kept", got.PakVersion)
	}
	if got.Whitelist != "/w.txt" || got.LockFile != "/l.lock" || !got.SuppressRemovedKeys || got.Verbosity != 2 {
		t.Fatalf("Apply() = %+v, want file values for unset flags", got)
	}
	if got.GritDir != "/gen" {
		t.Fatalf("Apply() changed directory roots: %+v", got)
	}

	var none *RepakFile
	if got := none.Apply(o, func(string) bool { return false }); got != o {
		t.Fatalf("nil RepakFile Apply() = %+v, want unchanged", got)
	}
}
