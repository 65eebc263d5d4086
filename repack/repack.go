// Package repack merges the component paks of each locale into one pak
// per locale.
//
// Locales are processed one at a time, in the order given. The first
// failure stops the run; outputs already written are left in place.
package repack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/minios-linux/repak/config"
	"github.com/minios-linux/repak/langmeta"
	"github.com/minios-linux/repak/lockfile"
	"github.com/minios-linux/repak/merge"
	"github.com/minios-linux/repak/pak"
)

// Merger writes output by merging inputs, in order.
type Merger interface {
	RePack(output string, inputs []string) error
}

// MergerFunc adapts a function to Merger.
type MergerFunc func(output string, inputs []string) error

// RePack calls f.
func (f MergerFunc) RePack(output string, inputs []string) error {
	return f(output, inputs)
}

// Result summarizes a run.
type Result struct {
	// Repacked lists the locales that were merged.
	Repacked []string
	// Skipped lists the locales left alone in incremental mode.
	Skipped []string
}

// Run repacks every locale with merger. opts must already be validated.
// The output's parent directory exists when merger is called. With
// opts.LockFile set, locales whose output exists and whose inputs and
// settings match the stamp are skipped.
func Run(ctx context.Context, opts config.Options, locales []string, merger Merger, logger zerolog.Logger) (Result, error) {
	var res Result
	dirs := opts.Dirs()

	var (
		lf          *lockfile.LockFile
		fingerprint string
	)
	if opts.LockFile != "" {
		var err error
		if lf, err = lockfile.Load(opts.LockFile); err != nil {
			return res, err
		}
		if fingerprint, err = Fingerprint(opts); err != nil {
			return res, err
		}
	}

	logger.Debug().Str("os", opts.OS).Int("locales", len(locales)).Msg("Starting repack")

	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		output := dirs.Output(locale)
		inputs := dirs.Inputs(locale)
		l := logger.With().Str("locale", locale).Str("output", output).Logger()

		if lf != nil && !lf.IsChanged(output, inputs) && lf.Fingerprint(output) == fingerprint {
			l.Info().Msg("Inputs unchanged, skipping")
			res.Skipped = append(res.Skipped, locale)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return res, fmt.Errorf("repacking %s: %w", locale, err)
		}

		if !langmeta.Known(locale) {
			l.Debug().Msg("Locale not in registry")
		}
		l.Info().Str("name", langmeta.Resolve(locale).Name).Msg("Repacking")
		if err := merger.RePack(output, inputs); err != nil {
			if lf != nil {
				// The output may be partial; force a retry next time.
				lf.Remove(output)
				if saveErr := lf.Save(); saveErr != nil {
					l.Warn().Err(saveErr).Msg("Could not save lock file")
				}
			}
			return res, fmt.Errorf("repacking %s: %w", locale, err)
		}
		res.Repacked = append(res.Repacked, locale)

		if lf != nil {
			if err := lf.Update(output, inputs); err != nil {
				return res, err
			}
			lf.SetFingerprint(output, fingerprint)
			// Saved per locale so an abort keeps the stamps of finished work.
			if err := lf.Save(); err != nil {
				return res, err
			}
		}
	}

	if lf != nil {
		logger.Debug().Str("lock", lf.Path()).Msg(lf.Summary())
	}
	return res, nil
}

// Fingerprint summarizes the options that shape a merged pak: the output
// format version and the whitelist content. Log options are left out.
func Fingerprint(opts config.Options) (string, error) {
	version := opts.PakVersion
	if version == 0 {
		version = pak.DefaultVersion
	}
	fp := fmt.Sprintf("pak_version=%d", version)
	if opts.Whitelist != "" {
		sum, err := lockfile.HashFile(opts.Whitelist)
		if err != nil {
			return "", fmt.Errorf("reading whitelist: %w", err)
		}
		fp += " whitelist=" + sum
	}
	return fp, nil
}

// PakMerger is the default Merger: it reads every input pak, combines
// them with merge.Packs and writes the result.
type PakMerger struct {
	// Version is the output pak format.
	Version int
	// Whitelist, when non-nil, restricts the kept resource ids.
	Whitelist map[uint16]bool
	// SuppressRemoved silences the per-id log line for dropped ids.
	SuppressRemoved bool
	Logger          zerolog.Logger
}

// NewPakMerger builds a PakMerger from options, loading the whitelist
// file if one is configured.
func NewPakMerger(opts config.Options, logger zerolog.Logger) (*PakMerger, error) {
	m := &PakMerger{
		Version:         opts.PakVersion,
		SuppressRemoved: opts.SuppressRemovedKeys,
		Logger:          logger,
	}
	if m.Version == 0 {
		m.Version = pak.DefaultVersion
	}
	if opts.Whitelist != "" {
		wl, err := merge.ReadWhitelist(opts.Whitelist)
		if err != nil {
			return nil, err
		}
		m.Whitelist = wl
	}
	return m, nil
}

// RePack implements Merger.
func (m *PakMerger) RePack(output string, inputs []string) error {
	packs := make([]*pak.DataPack, 0, len(inputs))
	for _, in := range inputs {
		dp, err := pak.ReadFile(in)
		if err != nil {
			return err
		}
		packs = append(packs, dp)
	}

	merged, removed, err := merge.Packs(packs, m.Whitelist)
	if err != nil {
		return fmt.Errorf("merging into %s: %w", output, err)
	}
	if !m.SuppressRemoved {
		for _, id := range removed {
			m.Logger.Info().Uint16("id", id).Str("output", output).Msg("Removed key")
		}
	}

	m.Logger.Debug().
		Int("resources", len(merged.Resources)).
		Str("encoding", merged.Encoding.String()).
		Int("version", m.Version).
		Msg("Writing merged pak")
	return pak.WriteFile(output, merged, m.Version)
}
