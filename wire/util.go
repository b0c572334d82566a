package wire

import (
	"io"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// DeviceNotFoundMessagePattern matches all possible error messages returned by adb servers to
// report that a matching device was not found.
//
// Old servers send "device not found", and newer ones "device 'serial' not found".
var DeviceNotFoundMessagePattern = regexp.MustCompile(`device( '.*')? not found`)

func ReadTetra(r io.Reader) ([4]byte, error) {
	var octet [4]byte
	_, err := io.ReadFull(r, octet[:])
	if err != nil {
		return [4]byte{}, errors.Wrap(err, "octet read failed")
	}
	return octet, nil
}

func TetraToString(tetra [4]byte) string {
	return string(tetra[:])
}

// HexTetraToLen parses a 4 hex digit length. Returns -1 if malformed.
func HexTetraToLen(octet [4]byte) int {
	len, err := strconv.ParseInt(string(octet[:]), 16, 32)
	if err != nil {
		return -1
	}
	return int(len)
}
