package adb

import "strings"

// noPermissions prefixes the state of a device adb may not open; the rest
// of the state is a reason and a help link.
const noPermissions = "no permissions"

// DeviceState represents one of the states adb will report devices in.
// A device can be communicated with when it's in StateOnline.
// A USB device will make the following state transitions:
// 	Plugged in: StateDisconnected->StateOffline->StateOnline
// 	Unplugged:  StateOnline->StateDisconnected
type DeviceState uint8

const (
	StateInvalid DeviceState = iota
	StateUnauthorized
	StateDisconnected
	StateOffline
	StateOnline
	StateNoPermissions
)

var deviceStateStrings = map[string]DeviceState{
	"":             StateDisconnected,
	"offline":      StateOffline,
	"device":       StateOnline,
	"unauthorized": StateUnauthorized,
}

func parseDeviceState(str string) DeviceState {
	if strings.HasPrefix(str, noPermissions) {
		return StateNoPermissions
	}
	if state, ok := deviceStateStrings[str]; ok {
		return state
	}
	return StateInvalid
}

func (s DeviceState) String() string {
	switch s {
	case StateUnauthorized:
		return "unauthorized"
	case StateDisconnected:
		return "disconnected"
	case StateOffline:
		return "offline"
	case StateOnline:
		return "device"
	case StateNoPermissions:
		return noPermissions
	default:
		return "invalid"
	}
}
