// Package manager owns the adb server and the device the caller currently
// works with. It selects a device (automatically, from a menu or by remote
// address), binds a handle to it and forwards captures, taps and swipes with
// human-like randomization.
package manager

import (
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/d1ced/adbauto"
)

// Handle is the device-side surface the Manager drives. *adb.Device implements it.
type Handle interface {
	Serial() string
	ScreenCapture() ([]byte, error)
	Tap(x, y int) error
	Swipe(x1, y1, x2, y2 int, duration time.Duration) error
	Describe() (adb.Description, error)
}

// Connector enumerates devices and connects remote ones. *adb.Server implements it.
type Connector interface {
	ListDeviceSerials() ([]string, error)
	// Connect connects a device over TCP/IP. An error aborts
	// SelectDevice; the address is not returned as a serial.
	Connect(host string, port int) error
}

// Config locates and addresses the adb server.
type Config struct {
	// AdbDir is searched for the adb executable before PATH.
	AdbDir string
	Host   string
	Port   int
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = adb.DefaultHost
	}
	if c.Port == 0 {
		c.Port = adb.DefaultPort
	}
	return c
}

// StartServer locates the adb executable and starts the adb server.
func StartServer(cfg Config) (*adb.Server, error) {
	cfg = cfg.withDefaults()
	path, err := adb.LookPath(cfg.AdbDir)
	if err != nil {
		return nil, errors.Wrap(err, "StartServer")
	}
	server, err := adb.New(path, cfg.Host, cfg.Port)
	return server, errors.Wrap(err, "StartServer")
}

// Initialize starts the adb server and returns a Manager with no device bound.
func Initialize(cfg Config, logger *slog.Logger) (*Manager, error) {
	server, err := StartServer(cfg)
	if err != nil {
		return nil, err
	}
	return ForServer(server, logger), nil
}

// ForServer returns a Manager binding *adb.Device handles of server.
func ForServer(server *adb.Server, logger *slog.Logger) *Manager {
	return New(server, func(serial string) Handle { return server.Device(serial) }, logger)
}

// Manager holds the current device binding. It is safe for concurrent use;
// rebinding replaces the handle without disconnecting the previous device.
type Manager struct {
	server Connector
	open   func(serial string) Handle
	log    *slog.Logger

	mu     sync.Mutex
	device Handle
	rand   *rand.Rand
}

// New returns a Manager that enumerates through server and builds handles
// with open. A nil logger discards.
func New(server Connector, open func(serial string) Handle, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		server: server,
		open:   open,
		log:    logger,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Device returns the bound handle, or nil.
func (m *Manager) Device() Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.device
}

// BindDevice makes serial the current device and logs its description.
// An empty serial leaves the binding untouched. Failures to describe the
// device are logged, never returned.
func (m *Manager) BindDevice(serial string) {
	if serial == "" {
		return
	}
	h := m.open(serial)

	m.mu.Lock()
	m.device = h
	m.mu.Unlock()

	m.logDescription(h)
}

func (m *Manager) logDescription(h Handle) {
	log := m.log.With("serial", h.Serial())
	log.Info("device bound")

	desc, err := h.Describe()
	if err != nil {
		log.Error("failed to read device info", "err", err)
		return
	}
	for _, f := range desc.Fields() {
		if f.OK() {
			log.Info("device info", "key", f.Key, "value", f.Value)
			continue
		}
		log.Error("failed to read device info", "key", f.Key, "status", f.Status, "value", f.Value)
	}
}

// CaptureToFile captures the screen of the bound device. When path is not
// empty the bytes are also written there, creating missing parent
// directories. The captured bytes are returned either way. Without a bound
// device it returns nil, nil.
func (m *Manager) CaptureToFile(path string) ([]byte, error) {
	h := m.Device()
	if h == nil {
		return nil, nil
	}
	b, err := h.ScreenCapture()
	if err != nil {
		return nil, errors.Wrap(err, "CaptureToFile")
	}
	if path == "" || len(b) == 0 {
		return b, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return b, errors.Wrapf(err, "CaptureToFile(%s)", path)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return b, errors.Wrapf(err, "CaptureToFile(%s)", path)
	}
	return b, nil
}

// TapRegion taps a random point inside r on the bound device.
// Without a bound device it does nothing.
func (m *Manager) TapRegion(r Region) error {
	h := m.Device()
	if h == nil {
		return nil
	}
	m.mu.Lock()
	x, y, err := r.randomPoint(m.rand)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return errors.Wrap(h.Tap(x, y), "TapRegion")
}

// Swipe swipes from (x1, y1) to (x2, y2) on the bound device over a random
// duration in [MinSwipeDuration, MaxSwipeDuration).
// Without a bound device it does nothing.
func (m *Manager) Swipe(x1, y1, x2, y2 int) error {
	h := m.Device()
	if h == nil {
		return nil
	}
	m.mu.Lock()
	d := swipeDuration(m.rand)
	m.mu.Unlock()
	return errors.Wrap(h.Swipe(x1, y1, x2, y2, d), "Swipe")
}
