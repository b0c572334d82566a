package adb

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/d1ced/adbauto/wire"
)

const (
	// DefaultExecutableName is the name of the ADB-Server on the Path
	DefaultExecutableName = "adb"
	// DefaultHost is the address the local ADB-Server listens on.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the default port for the ADB-Server to listens on.
	DefaultPort = 5037
)

// dialer used to connect to the adb server.
// Default is the regular Dialer form net.
// This exist only for easier mocking.
var dial = func(address string) (net.Conn, error) { return net.Dial("tcp", address) }

// runCommand runs the adb executable and returns its stdout.
// Swapped in tests.
var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// execute runs the executable at path, turning a non-zero exit into a ShellExitError.
func execute(path string, args ...string) ([]byte, error) {
	out, err := runCommand(path, args...)
	if exitErr, ok := err.(*exec.ExitError); ok {
		return out, ShellExitError{
			Command:  strings.Join(args, " "),
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(string(exitErr.Stderr)),
		}
	}
	return out, err
}

// LookPath prepends bundledDir to the process PATH and resolves the adb
// executable, so a bundled copy wins over one installed on the system.
func LookPath(bundledDir string) (string, error) {
	if bundledDir != "" {
		path := bundledDir
		if env := os.Getenv("PATH"); env != "" {
			path += string(os.PathListSeparator) + env
		}
		if err := os.Setenv("PATH", path); err != nil {
			return "", errors.Wrap(err, "LookPath")
		}
	}
	p, err := exec.LookPath(DefaultExecutableName)
	if err != nil {
		return "", errors.Wrap(ErrExecutableNotFound, err.Error())
	}
	return p, nil
}

// Server holds information needed to connect to a server repeatedly.
// Use New or NewDefault to create one.
type Server struct {
	path    string
	address string
}

// NewDefault creates a new Server for the adb on PATH listening on the default address.
func NewDefault() (*Server, error) {
	return New(DefaultExecutableName, DefaultHost, DefaultPort)
}

// New creates a new Server and starts the adb server process.
func New(path, host string, port int) (*Server, error) {
	s := &Server{
		path:    path,
		address: net.JoinHostPort(host, strconv.Itoa(port)),
	}
	err := start(s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func start(s *Server) error {
	out, err := execute(s.path, "start-server")
	return errors.WithMessagef(err, "error starting server. Output:\n%s", out)
}

// Path returns the adb executable used for shell commands.
func (s *Server) Path() string {
	return s.path
}

// Address returns host:port of the adb server.
func (s *Server) Address() string {
	return s.address
}

// openConn dials the server. The connection times out after 10 seconds.
func (s *Server) openConn() (net.Conn, *wire.Conn, error) {
	conn, err := dial(s.address)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error dialing %s", s.address)
	}
	conn.SetDeadline(time.Now().Add(10 * time.Second))
	return conn, wire.NewConn(conn), nil
}

// requestResponseBytes sends msg to server and returns the response.
// The connection is closed. It prepends "host:" to the message.
func (s *Server) requestResponseBytes(msg string) ([]byte, error) {
	conn, wc, err := s.openConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return wc.RoundTrip("host:" + msg)
}

// send sends msg to server reads status then closes the connection.
// prepends 'host:'
func (s *Server) send(msg string) error {
	conn, wc, err := s.openConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	return wc.RoundTripNoResponse("host:" + msg)
}

// Version asks the adb server for its internal version number.
func (s *Server) Version() (int, error) {
	b, err := s.requestResponseBytes("version")
	if err != nil {
		return 0, errors.Wrap(err, "Version")
	}

	v, err := strconv.ParseInt(string(b), 16, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrParsing, "Version: %q", b)
	}
	return int(v), nil
}

// Kill tells the server to quit immediately.
func (s *Server) Kill() error {
	return errors.Wrap(s.send("kill"), "Kill")
}

// ListDevices returns the list of connected devices.
func (s *Server) ListDevices() ([]DeviceInfo, error) {
	b, err := s.requestResponseBytes("devices-l")
	if err != nil {
		return nil, errors.Wrap(err, "ListDevices")
	}
	return parseDeviceList(bytes.NewBuffer(b), parseDeviceLong)
}

// ListDeviceSerials returns the serial numbers of all attached devices.
// Devices without a serial number cannot be addressed and are left out.
func (s *Server) ListDeviceSerials() ([]string, error) {
	b, err := s.requestResponseBytes("devices")
	if err != nil {
		return nil, errors.Wrap(err, "ListDeviceSerials")
	}
	devices, err := parseDeviceList(bytes.NewBuffer(b), parseDeviceShort)
	if err != nil {
		return nil, err
	}

	serials := make([]string, 0, len(devices))
	for _, dev := range devices {
		if dev.Serial == "" {
			continue
		}
		serials = append(serials, dev.Serial)
	}
	return serials, nil
}

// Connect asks the server to connect to a device over TCP/IP.
// The server answers OKAY even when the connect fails, so the message is
// inspected as well.
func (s *Server) Connect(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	b, err := s.requestResponseBytes(fmt.Sprintf("connect:%s", addr))
	if err != nil {
		return errors.Wrapf(err, "Connect(%s)", addr)
	}
	msg := strings.TrimSpace(string(b))
	if !isConnected(msg) {
		return errors.Wrapf(ErrConnectFailed, "Connect(%s): %s", addr, msg)
	}
	return nil
}

// Disconnect asks the server to drop a TCP/IP device.
func (s *Server) Disconnect(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	_, err := s.requestResponseBytes(fmt.Sprintf("disconnect:%s", addr))
	return errors.Wrapf(err, "Disconnect(%s)", addr)
}

func isConnected(msg string) bool {
	return strings.HasPrefix(msg, "connected to") ||
		strings.HasPrefix(msg, "already connected to")
}

// Device takes a devices serial number and returns it.
func (s *Server) Device(serial string) *Device {
	return &Device{
		server: s,
		serial: serial,
	}
}
