// Package discover finds the locales that have been built into a shared
// intermediate directory.
package discover

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern matches the ui_strings pak of every locale. Every locale the
// build knows about produces one, so it is used as the marker.
const Pattern = "ui/strings/ui_strings_*.pak"

const (
	prefix = "ui_strings_"
	suffix = ".pak"
)

// Locales returns the sorted, de-duplicated locales found under
// shareIntDir.
func Locales(shareIntDir string) ([]string, error) {
	info, err := os.Stat(shareIntDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", shareIntDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", shareIntDir)
	}

	matches, err := doublestar.Glob(os.DirFS(shareIntDir), Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", shareIntDir, err)
	}

	seen := make(map[string]bool, len(matches))
	var locales []string
	for _, m := range matches {
		name := path.Base(m)
		locale := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if locale == "" || seen[locale] {
			continue
		}
		seen[locale] = true
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales, nil
}
