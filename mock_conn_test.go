package adb

import (
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type mockAddr string

func (a mockAddr) String() string  { return string(a[3:]) }
func (a mockAddr) Network() string { return string(a[:3]) }

// mockConn expects in to be written and replies with out.
type mockConn struct {
	out      []byte
	in       []byte
	addr     string
	open     bool
	mtx      sync.Mutex
	deadline time.Time
	t        *testing.T
}

func mockDial(t *testing.T, in, out string) func(address string) (net.Conn, error) {
	return func(address string) (net.Conn, error) {
		return &mockConn{
			out:  []byte(out),
			in:   []byte(in),
			addr: address,
			open: true,
			t:    t,
		}, nil
	}
}

// withMockDial swaps the package dialer for the duration of the test.
func withMockDial(t *testing.T, in, out string) {
	d := dial
	dial = mockDial(t, in, out)
	t.Cleanup(func() { dial = d })
}

// message frames msg the way the server does.
func message(msg string) string {
	return fmt.Sprintf("%04x%s", len(msg), msg)
}

func (mc *mockConn) Read(b []byte) (int, error) {
	mc.mtx.Lock()
	defer mc.mtx.Unlock()
	if !mc.deadline.IsZero() && time.Now().After(mc.deadline) {
		return 0, errors.New("timeout")
	}
	if len(mc.out) == 0 {
		return 0, io.EOF
	}
	n := copy(b, mc.out)
	mc.out = mc.out[n:]
	return n, nil
}

func (mc *mockConn) Write(b []byte) (int, error) {
	mc.mtx.Lock()
	defer mc.mtx.Unlock()
	if !mc.deadline.IsZero() && time.Now().After(mc.deadline) {
		return 0, errors.New("timeout")
	}
	for i, v := range b {
		if len(mc.in) == 0 {
			mc.t.Errorf("unexpected write %q", b[i:])
			return i, io.EOF
		}
		if v != mc.in[0] {
			mc.t.Errorf("mismatched write. Want %q, got %q", mc.in, b[i:])
			return i, io.ErrShortWrite
		}
		mc.in = mc.in[1:]
	}
	return len(b), nil
}

func (mc *mockConn) Close() error {
	mc.mtx.Lock()
	defer mc.mtx.Unlock()
	if !mc.open {
		return errors.New("conn double close")
	}
	mc.open = false
	return nil
}

func (mc *mockConn) LocalAddr() net.Addr  { return mockAddr("tcp0.0.0.0") }
func (mc *mockConn) RemoteAddr() net.Addr { return mockAddr("tcp" + mc.addr) }

func (mc *mockConn) SetDeadline(t time.Time) error {
	mc.mtx.Lock()
	mc.deadline = t
	mc.mtx.Unlock()
	return nil
}

func (mc *mockConn) SetReadDeadline(t time.Time) error  { return mc.SetDeadline(t) }
func (mc *mockConn) SetWriteDeadline(t time.Time) error { return mc.SetDeadline(t) }
