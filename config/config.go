// Package config holds the settings of one repak invocation.
//
// Options is built once from the command line (and, for the optional
// knobs, from a .repak.yaml file), validated, and then passed by value to
// the path and repack code. Nothing in it changes after validation.
package config

import (
	"runtime"
	"strings"

	"github.com/minios-linux/repak/i18n"
	"github.com/minios-linux/repak/pak"
	"github.com/minios-linux/repak/paths"
)

// Options is the full configuration of a run.
type Options struct {
	// GritDir is the generated-resources output directory (-g).
	GritDir string
	// IntDir is the intermediate build-output directory (-x).
	IntDir string
	// ShareIntDir is the shared intermediate build-output directory (-s).
	ShareIntDir string
	// OS is the target platform (mac, linux, win, ...). It is recorded
	// and logged; path conventions do not depend on it.
	OS string
	// PrintInputs lists the input paks instead of repacking (-i).
	PrintInputs bool
	// PrintOutputs lists the output paks instead of repacking (-o).
	PrintOutputs bool

	// PakVersion is the format of the written paks (4 or 5).
	PakVersion int
	// Whitelist is an optional file of resource ids to keep.
	Whitelist string
	// SuppressRemovedKeys silences the log line for every id dropped by
	// the whitelist.
	SuppressRemovedKeys bool
	// LockFile enables incremental mode when non-empty.
	LockFile string
	// Verbosity is the -v count.
	Verbosity int
}

// Defaults returns Options with every optional field at its default.
func Defaults() Options {
	return Options{
		OS:         DefaultOS(runtime.GOOS),
		PakVersion: pak.DefaultVersion,
	}
}

// Dirs returns the directory roots used for path construction.
func (o Options) Dirs() paths.Dirs {
	return paths.Dirs{GritDir: o.GritDir, IntDir: o.IntDir, ShareIntDir: o.ShareIntDir}
}

// UsageError reports invalid command-line input. It is detected before
// any file is read or written.
type UsageError struct {
	Msg string
	// Usage is the usage line of the failing subcommand; empty for the
	// root command.
	Usage string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageError(msg string) error {
	return &UsageError{Msg: i18n.T(msg)}
}

// Validate checks the options against the locale list. All failures are
// *UsageError.
func (o Options) Validate(locales []string) error {
	if len(locales) == 0 {
		return usageError("Please specify at least one locale to process.")
	}
	if o.GritDir == "" || o.IntDir == "" || o.ShareIntDir == "" {
		return usageError(`Please specify all of "-g" and "-x" and "-s".`)
	}
	if o.PrintInputs && o.PrintOutputs {
		return usageError(`Please specify only one of "-i" or "-o".`)
	}
	if o.PakVersion != pak.Version4 && o.PakVersion != pak.Version5 {
		return usageError(`Please specify a pak version of 4 or 5.`)
	}
	return nil
}

// DefaultOS maps a Go GOOS value to the platform names used by the build
// files.
func DefaultOS(goos string) string {
	switch {
	case goos == "darwin":
		return "mac"
	case strings.HasPrefix(goos, "linux"):
		return "linux"
	case goos == "windows":
		return "win"
	default:
		return goos
	}
}
