package adb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d1ced/adbauto/wire"
)

func mockServer() *Server {
	return &Server{
		path:    "mock-path",
		address: "127.0.0.1:5037",
	}
}

func TestServerVersion(t *testing.T) {
	withMockDial(t, "000chost:version", "OKAY00040029")

	v, err := mockServer().Version()
	require.NoError(t, err)
	assert.Equal(t, 0x29, v)
}

func TestServerVersionFail(t *testing.T) {
	withMockDial(t, "000chost:version", "FAIL"+message("no version"))

	_, err := mockServer().Version()
	require.Error(t, err)
	fe, ok := errors.Cause(err).(*wire.FailError)
	require.True(t, ok, "want *wire.FailError, got %T", errors.Cause(err))
	assert.Equal(t, "no version", fe.Message)
}

func TestServerKill(t *testing.T) {
	withMockDial(t, "0009host:kill", "OKAY")
	assert.NoError(t, mockServer().Kill())
}

func TestListDeviceSerials(t *testing.T) {
	withMockDial(t, "000chost:devices",
		"OKAY"+message("192.168.56.101:5555\tdevice\n05856558\tunauthorized\n"))

	serials, err := mockServer().ListDeviceSerials()
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.56.101:5555", "05856558"}, serials)
}

func TestListDeviceSerialsNoPermissions(t *testing.T) {
	withMockDial(t, "000chost:devices",
		"OKAY"+message(noPermissionsLine+"\nemulator-5554\tdevice\n(no serial number)\toffline\n"))

	serials, err := mockServer().ListDeviceSerials()
	require.NoError(t, err)
	assert.Equal(t, []string{"0123456789ABCDEF", "emulator-5554"}, serials)
}

func TestListDeviceSerialsEmpty(t *testing.T) {
	withMockDial(t, "000chost:devices", "OKAY0000")

	serials, err := mockServer().ListDeviceSerials()
	require.NoError(t, err)
	assert.Empty(t, serials)
}

func TestListDevices(t *testing.T) {
	withMockDial(t, "000ehost:devices-l",
		"OKAY"+message("SERIAL device usb:1-1 product:P model:M device:D transport_id:1\n"))

	devices, err := mockServer().ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "SERIAL", devices[0].Serial)
	assert.Equal(t, StateOnline, devices[0].State)
	assert.Equal(t, "M", devices[0].Model)
	assert.True(t, devices[0].IsUSB())
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   bool
	}{
		{name: "Connected", reply: "connected to 127.0.0.1:5555"},
		{name: "AlreadyConnected", reply: "already connected to 127.0.0.1:5555"},
		{name: "Refused", reply: "failed to connect to '127.0.0.1:5555': Connection refused", err: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			withMockDial(t, message("host:connect:127.0.0.1:5555"), "OKAY"+message(test.reply))

			err := mockServer().Connect("127.0.0.1", 5555)
			if !test.err {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, ErrConnectFailed, errors.Cause(err))
		})
	}
}

func TestDisconnect(t *testing.T) {
	withMockDial(t, message("host:disconnect:10.0.0.2:5555"), "OKAY"+message("disconnected 10.0.0.2:5555"))
	assert.NoError(t, mockServer().Disconnect("10.0.0.2", 5555))
}
