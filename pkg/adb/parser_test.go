package adb

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arc-language/droidkit/pkg/arch"
)

func TestParseDevices(t *testing.T) {
	output := `* daemon not running; starting now at tcp:5037
* daemon started successfully
List of devices attached
emulator-5554          device product:sdk_gphone64_x86_64 model:sdk_gphone64_x86_64 device:emu64x transport_id:1
R58M123ABC             unauthorized usb:1-1 transport_id:2
192.168.1.20:5555      offline

`
	want := []Device{
		{Serial: "emulator-5554", State: "device", Model: "sdk_gphone64_x86_64"},
		{Serial: "R58M123ABC", State: "unauthorized"},
		{Serial: "192.168.1.20:5555", State: "offline"},
	}
	if diff := cmp.Diff(want, ParseDevices(output)); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}

	if got := ParseDevices("List of devices attached\n\n"); got != nil {
		t.Errorf("ParseDevices(empty) = %v", got)
	}
}

func TestParseABIList(t *testing.T) {
	got := ParseABIList("arm64-v8a,armeabi-v7a,armeabi\n")
	want := []arch.Architecture{arch.ArchAArch64, arch.ArchARMv7a}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("architectures mismatch (-want +got):\n%s", diff)
	}
}

func TestShellQuote(t *testing.T) {
	tests := map[string]string{
		"":                      "''",
		"/data/local/tmp/hello": "/data/local/tmp/hello",
		"--name=value":          "--name=value",
		"two words":             "'two words'",
		"it's":                  `'it'\''s'`,
		"$HOME":                 "'$HOME'",
	}
	for in, want := range tests {
		if got := shellQuote(in); got != want {
			t.Errorf("shellQuote(%q) = %q, want %q", in, got, want)
		}
	}
}
