// Package extra parses the output of shell commands that have no dedicated
// method on adb.Device.
package extra

// Sheller runs a shell command on a device. *adb.Device implements it.
type Sheller interface {
	Shell(cmd string, args ...string) ([]byte, error)
}
