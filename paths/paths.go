// Package paths computes the input and output pak file names used when
// repacking locales. Everything here is a pure function of the locale and
// the three build directory roots; nothing touches the filesystem.
package paths

import (
	"os"
	"strings"
)

// FakeBidi is the pseudo-locale used by test fixtures. Its output is
// written at a fixed path in the grit directory so tests can find it.
const FakeBidi = "fake-bidi"

// Dirs holds the build directory roots of one invocation.
type Dirs struct {
	// GritDir is the generated-resources output directory (-g).
	GritDir string
	// IntDir is the intermediate build-output directory (-x).
	IntDir string
	// ShareIntDir is the shared intermediate build-output directory (-s).
	ShareIntDir string
}

// input describes one of the per-locale pak files that get merged.
type input struct {
	dir    []string
	prefix string
}

// inputs is the fixed, ordered list of component paks merged per locale.
var inputs = []input{
	{dir: []string{"components", "accessibility"}, prefix: "accessibility_strings_"},
	{dir: []string{"webos", "network_error_resources"}, prefix: "network_error_strings_"},
	{dir: []string{"content", "app", "strings"}, prefix: "content_strings_"},
	{dir: []string{"ui", "strings"}, prefix: "ui_strings_"},
	{dir: []string{"ui", "strings"}, prefix: "app_locale_settings_"},
}

// InputsPerLocale is the number of input paks merged for every locale.
const InputsPerLocale = 5

// Output returns the merged pak written for locale.
//
//	fake-bidi -> {GritDir}/fake-bidi.pak
//	da        -> {IntDir}/webos/repack/da.pak
func (d Dirs) Output(locale string) string {
	if locale == FakeBidi {
		return d.GritDir + "/" + locale + ".pak"
	}
	return join(d.IntDir, "webos", "repack", locale+".pak")
}

// Inputs returns the component paks merged for locale, in merge order.
func (d Dirs) Inputs(locale string) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		elems := append([]string{d.ShareIntDir}, in.dir...)
		elems = append(elems, in.prefix+locale+".pak")
		out = append(out, join(elems...))
	}
	return out
}

// ListOutputs returns the output paks of all locales, in locale order,
// formatted for the build system.
func (d Dirs) ListOutputs(locales []string) string {
	outs := make([]string, 0, len(locales))
	for _, l := range locales {
		outs = append(outs, d.Output(l))
	}
	return Quote(outs)
}

// ListInputs returns the input paks of all locales, locale order first
// and merge order second, formatted for the build system.
func (d Dirs) ListInputs(locales []string) string {
	ins := make([]string, 0, len(locales)*len(inputs))
	for _, l := range locales {
		ins = append(ins, d.Inputs(l)...)
	}
	return Quote(ins)
}

// Quote wraps every path in double quotes and joins them with a single
// space, so names containing spaces survive list parsing on the build
// system side.
func Quote(list []string) string {
	quoted := make([]string, len(list))
	for i, p := range list {
		quoted[i] = `"` + p + `"`
	}
	return strings.Join(quoted, " ")
}

// join concatenates path elements, adding a separator only when the left
// side does not already end with one. Roots are kept verbatim (no
// filepath.Clean): listed names must match the build files byte for byte.
func join(elems ...string) string {
	var b strings.Builder
	for _, e := range elems {
		if s := b.String(); s != "" && !strings.HasSuffix(s, "/") && !strings.HasSuffix(s, string(os.PathSeparator)) {
			b.WriteByte(os.PathSeparator)
		}
		b.WriteString(e)
	}
	return b.String()
}
