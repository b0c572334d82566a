package adb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Device communicates with a specific Android device through the adb
// executable. To get an instance, call Device() on a Server.
type Device struct {
	server *Server
	serial string
}

func (d *Device) String() string {
	return d.serial
}

// Serial returns the serial the device was bound to.
func (d *Device) Serial() string {
	return d.serial
}

/*
Shell runs the specified command on a shell on the device and returns its
standard output, i.e. `adb -s <serial> shell <command> <args...>`.

The arguments are joined into a single command line the way the device shell
expects them. Arguments containing whitespace are quoted; arguments containing
double quotes are rejected.

A non-zero exit of the adb process is returned as a ShellExitError.
*/
func (d *Device) Shell(cmd string, args ...string) ([]byte, error) {
	line, err := prepareCommandLine(cmd, args...)
	if err != nil {
		return nil, err
	}
	out, err := execute(d.server.path, "-s", d.serial, "shell", line)
	return out, errors.WithMessage(err, "Shell")
}

// ScreenCapture returns the current screen as PNG bytes.
func (d *Device) ScreenCapture() ([]byte, error) {
	out, err := d.Shell("screencap", "-p")
	return out, errors.Wrap(err, "ScreenCapture")
}

// Tap injects a tap at (x, y).
func (d *Device) Tap(x, y int) error {
	_, err := d.Shell("input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return errors.Wrap(err, "Tap")
}

// Swipe injects a swipe from (x1, y1) to (x2, y2) lasting duration.
func (d *Device) Swipe(x1, y1, x2, y2 int, duration time.Duration) error {
	_, err := d.Shell("input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1),
		strconv.Itoa(x2), strconv.Itoa(y2),
		strconv.FormatInt(int64(duration/time.Millisecond), 10))
	return errors.Wrap(err, "Swipe")
}

// DisplaySize queries `wm size`. ok is false if the output carries no
// physical size; that is not an error.
func (d *Device) DisplaySize() (size Size, ok bool, err error) {
	out, err := d.Shell("wm", "size")
	if err != nil {
		return Size{}, false, errors.Wrap(err, "DisplaySize")
	}
	size, ok = parseSize(out)
	return size, ok, nil
}

// Properties dumps the system properties via getprop.
func (d *Device) Properties() (Properties, error) {
	out, err := d.Shell("getprop")
	if err != nil {
		return nil, errors.Wrap(err, "Properties")
	}
	return parseProperties(out), nil
}

// Describe collects the descriptive properties and the resolution. Missing
// or malformed values are reported in the Description, not as errors.
func (d *Device) Describe() (Description, error) {
	props, err := d.Properties()
	if err != nil {
		return Description{}, errors.Wrap(err, "Describe")
	}
	size, ok, err := d.DisplaySize()
	if err != nil {
		return Description{}, errors.Wrap(err, "Describe")
	}
	return Describe(d.serial, props, size, ok), nil
}

// prepareCommandLine validates the command and argument strings, quotes
// arguments if required, and joins them into a valid adb command string.
func prepareCommandLine(cmd string, args ...string) (string, error) {
	if isBlank(cmd) {
		return "", errors.Wrap(ErrAssertionViolation, "command cannot be empty")
	}

	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsRune(arg, '"') {
			return "", errors.Wrapf(ErrParsing, "arg at index %d contains an invalid double quote: %s", i, arg)
		}
		if containsWhitespace(arg) {
			arg = fmt.Sprintf("\"%s\"", arg)
		}
		quoted[i] = arg
	}

	if len(quoted) > 0 {
		cmd = fmt.Sprintf("%s %s", cmd, strings.Join(quoted, " "))
	}

	return cmd, nil
}
