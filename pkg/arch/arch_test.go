package arch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arc-language/droidkit/pkg/core"
)

func TestTriples(t *testing.T) {
	want := map[Architecture]string{
		ArchARMv7a:  "arm-linux-androideabi",
		ArchAArch64: "aarch64-linux-android",
		ArchX86:     "i686-linux-android",
		ArchX86_64:  "x86_64-linux-android",
	}
	got := make(map[Architecture]string)
	seen := make(map[string]Architecture)
	for _, a := range All {
		triple := a.Triple()
		if other, ok := seen[triple]; ok {
			t.Errorf("%s and %s share triple %q", a, other, triple)
		}
		seen[triple] = a
		got[a] = triple
		if again := a.Triple(); again != triple {
			t.Errorf("%s: Triple() not stable: %q then %q", a, triple, again)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("triples mismatch (-want +got):\n%s", diff)
	}
}

func TestAllOrder(t *testing.T) {
	want := []Architecture{"armv7a", "aarch64", "x86", "x86_64"}
	if diff := cmp.Diff(want, All); diff != "" {
		t.Errorf("build order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	for _, a := range All {
		got, err := Parse(string(a))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", a, err)
		}
		if got != a {
			t.Errorf("Parse(%q) = %q", a, got)
		}
	}

	for _, tag := range []string{"", "arm64", "ARMV7A", "mips", "x86-64"} {
		_, err := Parse(tag)
		if !errors.Is(err, core.ErrConfiguration) {
			t.Errorf("Parse(%q) = %v, want configuration error", tag, err)
		}
	}
}

func TestABI(t *testing.T) {
	for _, a := range All {
		back, ok := FromABI(a.ABI())
		if !ok || back != a {
			t.Errorf("FromABI(%q) = %q, %v; want %q", a.ABI(), back, ok, a)
		}
	}
	if _, ok := FromABI("mips"); ok {
		t.Errorf("FromABI(mips) unexpectedly succeeded")
	}
}
