package manager

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		input string
		want  int
		err   bool
	}{
		{input: "", want: 0},
		{input: "   ", want: 0},
		{input: "1", want: 1},
		{input: " 2 ", want: 2},
		{input: "-1", want: ManualEntry},
		{input: "one", err: true},
		{input: "1.5", err: true},
	}
	for _, test := range tests {
		got, err := ParseIndex(test.input)
		if test.err {
			_, ok := err.(*InputError)
			assert.True(t, ok, "input %q: want *InputError, got %v", test.input, err)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, test.want, got, "input %q", test.input)
	}
}

func TestChooseSerial(t *testing.T) {
	serials := []string{"a", "b"}

	s, manual, err := ChooseSerial(serials, 1)
	require.NoError(t, err)
	assert.False(t, manual)
	assert.Equal(t, "b", s)

	s, manual, err = ChooseSerial(serials, ManualEntry)
	require.NoError(t, err)
	assert.True(t, manual)
	assert.Empty(t, s)

	for _, index := range []int{2, 10, -2} {
		_, _, err = ChooseSerial(serials, index)
		ie, ok := err.(*IndexError)
		require.True(t, ok, "index %d: want *IndexError, got %v", index, err)
		assert.Equal(t, index, ie.Index)
		assert.Equal(t, 2, ie.Len)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input string
		host  string
		port  int
		err   bool
	}{
		{input: "127.0.0.1:5555", host: "127.0.0.1", port: 5555},
		{input: "192.168.1.20:37000\r", host: "192.168.1.20", port: 37000},
		{input: "", host: "127.0.0.1", port: 5555},
		{input: "127.0.0.1", err: true},
		{input: ":5555", err: true},
		{input: "host:port", err: true},
		{input: "host:70000", err: true},
	}
	for _, test := range tests {
		host, port, err := ParseAddress(test.input)
		if test.err {
			_, ok := err.(*AddressError)
			assert.True(t, ok, "input %q: want *AddressError, got %v", test.input, err)
			continue
		}
		require.NoError(t, err, "input %q", test.input)
		assert.Equal(t, test.host, host)
		assert.Equal(t, test.port, port)
	}
}

func selectWith(c *fakeConnector, input string) (string, string, error) {
	out := &bytes.Buffer{}
	m := newTestManager(c, &fakeHandle{}, nil)
	serial, err := m.SelectDevice(NewPrompter(strings.NewReader(input), out))
	return serial, out.String(), err
}

func TestSelectDeviceNoDevices(t *testing.T) {
	c := &fakeConnector{}
	serial, out, err := selectWith(c, "127.0.0.1:5555\n")

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5555", serial)
	assert.Equal(t, []connect{{"127.0.0.1", 5555}}, c.connects)
	assert.Contains(t, out, "No device detected.")
}

func TestSelectDeviceNoDevicesConnectFails(t *testing.T) {
	boom := errors.New("failed to connect")
	c := &fakeConnector{connErr: boom}
	_, _, err := selectWith(c, "10.0.0.3:5555\n")

	assert.Equal(t, boom, errors.Cause(err))
	assert.Equal(t, []connect{{"10.0.0.3", 5555}}, c.connects)
}

func TestSelectDeviceSingle(t *testing.T) {
	c := &fakeConnector{serials: []string{"emulator-5554"}}
	serial, out, err := selectWith(c, "")

	require.NoError(t, err)
	assert.Equal(t, "emulator-5554", serial)
	assert.Empty(t, out)
	assert.Empty(t, c.connects)
}

func TestSelectDeviceMenu(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		connect []connect
		err     interface{}
	}{
		{name: "Second", input: "1\n", want: "emulator-5556"},
		{name: "Default", input: "\n", want: "emulator-5554"},
		{name: "NoTrailingNewline", input: "1", want: "emulator-5556"},
		{name: "Manual", input: "-1\n10.0.0.9:5555\n", want: "10.0.0.9:5555", connect: []connect{{"10.0.0.9", 5555}}},
		{name: "NotANumber", input: "x\n", err: &InputError{}},
		{name: "OutOfRange", input: "7\n", err: &IndexError{}},
		{name: "BadAddress", input: "-1\nnowhere\n", err: &AddressError{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := &fakeConnector{serials: []string{"emulator-5554", "emulator-5556"}}
			serial, out, err := selectWith(c, test.input)

			assert.Contains(t, out, "[0] - emulator-5554")
			assert.Contains(t, out, "[1] - emulator-5556")
			assert.Contains(t, out, "[-1] - ")
			if test.err != nil {
				require.Error(t, err)
				assert.IsType(t, test.err, err)
				assert.Empty(t, serial)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, serial)
			assert.Equal(t, test.connect, c.connects)
		})
	}
}

func TestSelectDeviceMenuClosedInput(t *testing.T) {
	c := &fakeConnector{serials: []string{"emulator-5554", "emulator-5556"}}
	serial, _, err := selectWith(c, "")

	assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(err))
	assert.Empty(t, serial)
}

func TestSelectDeviceRemoteClosedInput(t *testing.T) {
	c := &fakeConnector{}
	_, _, err := selectWith(c, "")

	assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(err))
	assert.Empty(t, c.connects)
}

func TestSelectDeviceListError(t *testing.T) {
	boom := errors.New("cannot connect to daemon")
	_, _, err := selectWith(&fakeConnector{listErr: boom}, "")
	assert.Equal(t, boom, errors.Cause(err))
}
