package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " EN-us ", want: "en-US"},
		{in: "es-419", want: "es-419"},
		{in: "fake-bidi", want: "fake-bidi"},
		{in: "ru", want: "ru"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("en-GB")
		if got.Name != "English (UK)" || got.RTL {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("normalized match", func(t *testing.T) {
		got := Resolve("pt_br")
		if got.Name != "Portuguese (Brazil)" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("base fallback", func(t *testing.T) {
		got := Resolve("ar-EG")
		if got.Name != "Arabic" || !got.RTL {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("fake-bidi is rtl", func(t *testing.T) {
		got := Resolve("fake-bidi")
		if !got.RTL || got.Direction() != "rtl" {
			t.Fatalf("unexpected fake-bidi result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.RTL || got.Direction() != "ltr" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestKnown(t *testing.T) {
	if !Known("zh_cn") {
		t.Fatal("Known(zh_cn) = false, want true")
	}
	if Known("de-AT") {
		t.Fatal("Known(de-AT) = true, want false")
	}
}
