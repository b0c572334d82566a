package adb

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// unknownSerial is reported for devices that do not expose a serial number.
const unknownSerial = "(no serial number)"

// deviceAttributes are the devices-l attributes kept in DeviceInfo.
var deviceAttributes = map[string]bool{
	"usb":     true,
	"product": true,
	"model":   true,
	"device":  true,
}

type DeviceInfo struct {
	// Empty if the device reports no serial number.
	Serial string
	State  DeviceState
	// Product, device, and model are not set in the short form.
	Product    string
	Model      string
	DeviceInfo string
	// Only set for devices connected via USB.
	USB string
}

func newDevice(serial string, state string, attrs map[string]string) DeviceInfo {
	if serial == unknownSerial {
		serial = ""
	}
	return DeviceInfo{
		Serial:     serial,
		State:      parseDeviceState(state),
		Product:    attrs["product"],
		Model:      attrs["model"],
		DeviceInfo: attrs["device"],
		USB:        attrs["usb"],
	}
}

// IsUSB returns true if the device is connected via USB.
func (d DeviceInfo) IsUSB() bool {
	return d.USB != ""
}

func parseDeviceList(list io.Reader, lineParseFunc func(string) (DeviceInfo, error)) ([]DeviceInfo, error) {
	devices := []DeviceInfo{}
	scanner := bufio.NewScanner(list)

	for scanner.Scan() {
		if isBlank(scanner.Text()) {
			continue
		}
		device, err := lineParseFunc(scanner.Text())
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, errors.Wrap(scanner.Err(), "parseDeviceList")
}

// splitSerial separates the serial from the rest of a device line. Short
// listings delimit the serial by a tab, long listings pad it with spaces.
func splitSerial(line string) (serial, rest string, err error) {
	if serial, rest, ok := strings.Cut(line, "\t"); ok {
		return serial, strings.TrimLeft(rest, " "), nil
	}
	if strings.HasPrefix(line, unknownSerial) {
		return unknownSerial, strings.TrimLeft(line[len(unknownSerial):], " "), nil
	}
	serial, rest, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", errors.Wrapf(ErrParsing, "malformed device line %q, missing tab or space after serial", line)
	}
	return serial, strings.TrimLeft(rest, " "), nil
}

// parseDeviceShort parses a devices line. The state may contain spaces,
// e.g. "no permissions (...); see [...]".
func parseDeviceShort(line string) (DeviceInfo, error) {
	serial, rest, err := splitSerial(strings.TrimRight(line, "\r"))
	if err != nil {
		return DeviceInfo{}, err
	}
	return newDevice(serial, strings.TrimSpace(rest), map[string]string{}), nil
}

// parseDeviceLong parses a devices-l line. Unauthorized and offline devices
// report no product attributes, so only serial and state are required.
func parseDeviceLong(line string) (DeviceInfo, error) {
	serial, rest, err := splitSerial(strings.TrimRight(line, "\r"))
	if err != nil {
		return DeviceInfo{}, err
	}
	state, attrs := strings.TrimSpace(rest), ""
	if !strings.HasPrefix(state, noPermissions) {
		state, attrs, _ = strings.Cut(state, " ")
	} else {
		attrs = state
	}
	return newDevice(serial, state, parseDeviceAttributes(strings.Fields(attrs))), nil
}

func parseDeviceAttributes(fields []string) map[string]string {
	attrs := map[string]string{}
	for _, field := range fields {
		key, val := parseKeyVal(field)
		if !deviceAttributes[key] {
			continue
		}
		attrs[key] = val
	}
	return attrs
}

// Parses a key:val pair and returns key, val.
func parseKeyVal(pair string) (string, string) {
	split := strings.SplitN(pair, ":", 2)
	if len(split) != 2 {
		return "", ""
	}
	return split[0], split[1]
}
