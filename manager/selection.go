package manager

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ManualEntry is the menu index that asks for a remote address instead.
const ManualEntry = -1

// DefaultRemoteAddress is used when the remote address prompt is left empty.
const DefaultRemoteAddress = "127.0.0.1:5555"

// InputError is returned for a device index that is not an integer.
type InputError struct {
	Input string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid device index %q: not a number", e.Input)
}

// IndexError is returned for a device index outside the menu.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("device index %d out of range [0, %d)", e.Index, e.Len)
}

// AddressError is returned for a remote address that is not ip:port.
type AddressError struct {
	Input  string
	Reason string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid device address %q: %s", e.Input, e.Reason)
}

// ParseIndex parses the menu answer. Empty input selects index 0.
func ParseIndex(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InputError{Input: input}
	}
	return i, nil
}

// ChooseSerial resolves a menu index against serials. manual is true for
// ManualEntry, in which case serial is empty.
func ChooseSerial(serials []string, index int) (serial string, manual bool, err error) {
	if index == ManualEntry {
		return "", true, nil
	}
	if index < 0 || index >= len(serials) {
		return "", false, &IndexError{Index: index, Len: len(serials)}
	}
	return serials[index], false, nil
}

// ParseAddress splits an ip:port answer. Empty input yields DefaultRemoteAddress.
func ParseAddress(input string) (host string, port int, err error) {
	s := strings.TrimSpace(input)
	if s == "" {
		s = DefaultRemoteAddress
	}
	host, p, err := net.SplitHostPort(s)
	if err != nil {
		return "", 0, &AddressError{Input: input, Reason: err.Error()}
	}
	if host == "" {
		return "", 0, &AddressError{Input: input, Reason: "missing host"}
	}
	port, err = strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, &AddressError{Input: input, Reason: "invalid port " + strconv.Quote(p)}
	}
	return host, port, nil
}
