package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// maxMessageLength is the largest payload a 4 hex digit length prefix can describe.
const maxMessageLength = 0xFFFF

// StatusCodes are returned by the server. If the code indicates failure, the
// next message will be the error.
const (
	StatusSuccess = "OKAY"
	StatusFailure = "FAIL"
)

// FailError is a FAIL status returned by the server, carrying its message.
type FailError struct {
	Request string
	Message string
}

func (f *FailError) Error() string {
	return fmt.Sprintf("server error for %s: %s", f.Request, f.Message)
}

// DeviceNotFound reports whether the server failed because no device
// matched the request.
func (f *FailError) DeviceNotFound() bool {
	return DeviceNotFoundMessagePattern.MatchString(f.Message)
}

/*
Conn is a normal connection to an adb server.

For most cases, usage looks something like:
	conn := wire.NewConn(netConn)
	conn.SendMessage("host:version")
	conn.ReadStatus("host:version")
	conn.ReadMessage()

The official client closes a connection immediately after it has read the
response, so a Conn is intended for a single request-response cycle.
*/
type Conn struct {
	rw io.ReadWriter
}

// NewConn wraps rw, usually a net.Conn dialed to the server.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw}
}

// SendMessage writes msg prefixed by its length as 4 hex digits.
func (c *Conn) SendMessage(msg string) error {
	if len(msg) > maxMessageLength {
		return errors.Errorf("message length exceeds maximum: %d > %d",
			len(msg), maxMessageLength)
	}
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "%04x", len(msg))
	b.WriteString(msg)
	_, err := io.Copy(c.rw, b)
	return errors.Wrap(err, "error sending message")
}

// ReadStatus reads the status, and if failure, reads the message and returns
// it as a *FailError. If the status is success, doesn't read further.
func (c *Conn) ReadStatus(req string) error {
	status, err := ReadTetra(c.rw)
	if err != nil {
		return errors.Wrapf(err, "error reading status for %s", req)
	}
	switch TetraToString(status) {
	case StatusSuccess:
		return nil
	case StatusFailure:
		msg, err := c.ReadMessage()
		if err != nil {
			return errors.Wrapf(err,
				"server returned error for %s, but couldn't read the error message", req)
		}
		return &FailError{Request: req, Message: string(msg)}
	default:
		return errors.Errorf("unexpected status %q for %s", status[:], req)
	}
}

// ReadMessage reads one length-prefixed message.
func (c *Conn) ReadMessage() ([]byte, error) {
	t, err := ReadTetra(c.rw)
	if err != nil {
		return nil, err
	}
	length := HexTetraToLen(t)
	if length < 0 {
		return nil, errors.Errorf("invalid message length %q", t[:])
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(c.rw, b); err != nil {
		return nil, errors.Wrap(err, "error reading message data")
	}
	return b, nil
}

// RoundTrip sends req, checks the status and reads a single message response.
func (c *Conn) RoundTrip(req string) ([]byte, error) {
	if err := c.SendMessage(req); err != nil {
		return nil, err
	}
	if err := c.ReadStatus(req); err != nil {
		return nil, err
	}
	return c.ReadMessage()
}

// RoundTripNoResponse sends req and checks the status.
func (c *Conn) RoundTripNoResponse(req string) error {
	if err := c.SendMessage(req); err != nil {
		return err
	}
	return c.ReadStatus(req)
}
