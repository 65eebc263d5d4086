package paths

import (
	"reflect"
	"strings"
	"testing"
)

var testDirs = Dirs{GritDir: "/gen", IntDir: "/int", ShareIntDir: "/shared"}

func TestOutput(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "regular locale goes to repack dir", locale: "da", want: "/int/webos/repack/da.pak"},
		{name: "region locale", locale: "pt-BR", want: "/int/webos/repack/pt-BR.pak"},
		{name: "fake-bidi goes to grit dir", locale: FakeBidi, want: "/gen/fake-bidi.pak"},
	}

	for _, tc := range tests {
		if got := testDirs.Output(tc.locale); got != tc.want {
			t.Fatalf("%s: Output(%q) = %q, want %q", tc.name, tc.locale, got, tc.want)
		}
	}
}

func TestInputsOrderAndNames(t *testing.T) {
	want := []string{
		"/shared/components/accessibility/accessibility_strings_da.pak",
		"/shared/webos/network_error_resources/network_error_strings_da.pak",
		"/shared/content/app/strings/content_strings_da.pak",
		"/shared/ui/strings/ui_strings_da.pak",
		"/shared/ui/strings/app_locale_settings_da.pak",
	}

	got := testDirs.Inputs("da")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Inputs(da) = %#v, want %#v", got, want)
	}
	if len(inputs) != InputsPerLocale {
		t.Fatalf("len(inputs) = %d, want %d", len(inputs), InputsPerLocale)
	}
}

func TestInputsIgnoreFakeBidiSpecialCase(t *testing.T) {
	got := testDirs.Inputs(FakeBidi)
	if got[0] != "/shared/components/accessibility/accessibility_strings_fake-bidi.pak" {
		t.Fatalf("Inputs(fake-bidi)[0] = %q", got[0])
	}
}

func TestListOutputsScenario(t *testing.T) {
	got := testDirs.ListOutputs([]string{"da", FakeBidi})
	want := `"/int/webos/repack/da.pak" "/gen/fake-bidi.pak"`
	if got != want {
		t.Fatalf("ListOutputs() = %q, want %q", got, want)
	}
}

func TestListInputsCountAndOrder(t *testing.T) {
	locales := []string{"en-US", "da", "ko"}
	got := testDirs.ListInputs(locales)

	fields := strings.Split(got, " ")
	if len(fields) != InputsPerLocale*len(locales) {
		t.Fatalf("ListInputs() has %d fields, want %d", len(fields), InputsPerLocale*len(locales))
	}
	for i, f := range fields {
		if !strings.HasPrefix(f, `"`) || !strings.HasSuffix(f, `"`) {
			t.Fatalf("field %d = %s, want quoted", i, f)
		}
		locale := locales[i/InputsPerLocale]
		if !strings.HasSuffix(f, "_"+locale+`.pak"`) {
			t.Fatalf("field %d = %s, want locale %s", i, f, locale)
		}
	}
	if !strings.HasPrefix(fields[0], `"/shared/components/accessibility/`) {
		t.Fatalf("first field = %s, want accessibility pak", fields[0])
	}
}

func TestJoinKeepsRootsVerbatim(t *testing.T) {
	tests := []struct {
		dirs Dirs
		want string
	}{
		{dirs: Dirs{IntDir: "/int/"}, want: "/int/webos/repack/da.pak"},
		{dirs: Dirs{IntDir: "./out"}, want: "./out/webos/repack/da.pak"},
		{dirs: Dirs{IntDir: "a//b"}, want: "a//b/webos/repack/da.pak"},
		{dirs: Dirs{IntDir: ""}, want: "webos/repack/da.pak"},
	}

	for _, tc := range tests {
		if got := tc.dirs.Output("da"); got != tc.want {
			t.Fatalf("Output(da) with IntDir %q = %q, want %q", tc.dirs.IntDir, got, tc.want)
		}
	}
}

func TestQuoteKeepsSpaces(t *testing.T) {
	got := Quote([]string{"/a b/x.pak", "/c.pak"})
	want := `"/a b/x.pak" "/c.pak"`
	if got != want {
		t.Fatalf("Quote() = %q, want %q", got, want)
	}
	if got := Quote(nil); got != "" {
		t.Fatalf("Quote(nil) = %q, want empty", got)
	}
}
