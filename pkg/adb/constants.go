// pkg/adb/constants.go
package adb

const (
	// DefaultExecutable is looked up on PATH when nothing else is configured
	DefaultExecutable = "adb"

	// SerialEnv selects one device when several are connected
	SerialEnv = "ANDROID_SERIAL"

	// ABIListProperty lists the ABIs the device can execute
	ABIListProperty = "ro.product.cpu.abilist"

	// StateDevice is the `adb devices` state of a usable device
	StateDevice = "device"

	// StateUnauthorized means the host key has not been accepted on the device
	StateUnauthorized = "unauthorized"
)

// SDK locations probed for platform-tools/adb, in order
var sdkEnvVars = []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"}

const installHint = `Install the Android platform tools and make sure adb is on PATH,
or point "adb.path" in local.properties.yml (or ANDROID_HOME) at it.
  - How to Install Android Tools for macOS: https://stackoverflow.com/questions/17901692/set-up-adb-on-mac-os-x
  - Platform tools: https://developer.android.com/tools/releases/platform-tools`

const noDeviceHint = `Connect an Android device (or start an emulator) and enable USB debugging.
  - How to Enable USB Debugging on Android device: https://developer.android.com/studio/debug/dev-options`

const unauthorizedHint = `Unlock the device and accept the "Allow USB debugging?" prompt, then run verify again.`

const multipleDevicesHint = `Disconnect all but one device, or select one with ANDROID_SERIAL=<serial>.`
