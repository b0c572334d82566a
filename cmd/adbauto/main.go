package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/cheggaaa/pb"
	"github.com/pkg/errors"

	"github.com/d1ced/adbauto"
	"github.com/d1ced/adbauto/extra"
	"github.com/d1ced/adbauto/manager"
)

const StdIoFilename = "-"

var (
	serial = kingpin.Flag("serial",
		"Connect to device by serial number.").
		Short('s').
		Envar("ADBAUTO_SERIAL").
		String()
	adbDir = kingpin.Flag("adb-dir",
		"Directory searched for the adb executable before PATH.").
		Envar("ADBAUTO_ADB_DIR").
		Default(executableDir()).
		String()
	host = kingpin.Flag("host",
		"Address of the adb server.").
		Envar("ADBAUTO_HOST").
		Default(adb.DefaultHost).
		String()
	port = kingpin.Flag("port",
		"Port of the adb server.").
		Envar("ADBAUTO_PORT").
		Default(fmt.Sprint(adb.DefaultPort)).
		Int()
	logLevel = kingpin.Flag("log-level",
		"Log level.").
		Envar("ADBAUTO_LOG_LEVEL").
		Default("info").
		Enum("debug", "info", "warn", "error")

	devicesCommand = kingpin.Command("devices",
		"List devices.")
	devicesLongFlag = devicesCommand.Flag("long",
		"Include extra detail about devices.").
		Short('l').
		Bool()

	connectCommand = kingpin.Command("connect",
		"Connect to a device over TCP/IP.")
	connectAddressArg = connectCommand.Arg("address",
		"ip:port of the device.").
		Default(manager.DefaultRemoteAddress).
		String()

	selectCommand = kingpin.Command("select",
		"Select a device and print its serial.")

	infoCommand = kingpin.Command("info",
		"Describe the selected device.")

	propsCommand = kingpin.Command("props",
		"Print system properties.")
	propsKeyArg = propsCommand.Arg("key",
		"Only print this property.").
		String()

	sizeCommand = kingpin.Command("size",
		"Print the physical display size.")

	screencapCommand = kingpin.Command("screencap",
		"Capture the screen as PNG.")
	screencapProgressFlag = screencapCommand.Flag("progress",
		"Show progress.").
		Short('p').
		Bool()
	screencapPathArg = screencapCommand.Arg("path",
		"Path of destination file. If -, will write to stdout.").
		Default(StdIoFilename).
		String()

	tapCommand = kingpin.Command("tap",
		"Tap a random point inside a region.")
	tapX0Arg = tapCommand.Arg("x0", "Left bound.").Required().Float64()
	tapY0Arg = tapCommand.Arg("y0", "Top bound.").Required().Float64()
	tapX1Arg = tapCommand.Arg("x1", "Right bound, exclusive.").Required().Float64()
	tapY1Arg = tapCommand.Arg("y1", "Bottom bound, exclusive.").Required().Float64()

	swipeCommand = kingpin.Command("swipe",
		"Swipe between two points.")
	swipeX1Arg = swipeCommand.Arg("x1", "Start x.").Required().Int()
	swipeY1Arg = swipeCommand.Arg("y1", "Start y.").Required().Int()
	swipeX2Arg = swipeCommand.Arg("x2", "End x.").Required().Int()
	swipeY2Arg = swipeCommand.Arg("y2", "End y.").Required().Int()

	psCommand = kingpin.Command("ps",
		"List processes.")

	killCommand = kingpin.Command("kill",
		"Signal every process with the given name.")
	killSignalFlag = killCommand.Flag("signal",
		"Signal number to send.").
		Default("9").
		Int()
	killNameArg = killCommand.Arg("name",
		"Process name as listed by ps.").
		Required().
		String()

	packageCommand = kingpin.Command("package",
		"Show an installed package.")
	packageNameArg = packageCommand.Arg("name",
		"Package name.").
		Required().
		String()
)

var (
	server *adb.Server
	mgr    *manager.Manager
)

func main() {
	command := kingpin.Parse()

	logger := newLogger(*logLevel)

	var err error
	server, err = manager.StartServer(manager.Config{
		AdbDir: *adbDir,
		Host:   *host,
		Port:   *port,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	mgr = manager.ForServer(server, logger)

	var exitCode int
	switch command {
	case "devices":
		exitCode = listDevices(*devicesLongFlag)
	case "connect":
		exitCode = connect(*connectAddressArg)
	case "select":
		exitCode = selectDevice()
	case "info":
		exitCode = info()
	case "props":
		exitCode = props(*propsKeyArg)
	case "size":
		exitCode = size()
	case "screencap":
		exitCode = screencap(*screencapProgressFlag, *screencapPathArg)
	case "tap":
		exitCode = tap(manager.Region{X0: *tapX0Arg, Y0: *tapY0Arg, X1: *tapX1Arg, Y1: *tapY1Arg})
	case "swipe":
		exitCode = swipe(*swipeX1Arg, *swipeY1Arg, *swipeX2Arg, *swipeY2Arg)
	case "ps":
		exitCode = ps()
	case "kill":
		exitCode = kill(*killNameArg, *killSignalFlag)
	case "package":
		exitCode = statPackage(*packageNameArg)
	}

	os.Exit(exitCode)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// executableDir is where a bundled adb is expected.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// resolveSerial returns --serial or asks the user to pick a device.
// Invalid answers are fatal.
func resolveSerial() string {
	if *serial != "" {
		return *serial
	}
	s, err := mgr.SelectDevice(manager.NewPrompter(os.Stdin, os.Stdout))
	if err != nil {
		kingpin.Fatalf("%v", err)
	}
	return s
}

// bind resolves the serial and binds it, logging the device description.
func bind() string {
	s := resolveSerial()
	mgr.BindDevice(s)
	return s
}

func listDevices(long bool) int {
	devices, err := server.ListDevices()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	for _, device := range devices {
		if long {
			if !device.IsUSB() {
				fmt.Printf("%s\t%s product:%s model:%s device:%s\n",
					device.Serial, device.State, device.Product, device.Model, device.DeviceInfo)
			} else {
				fmt.Printf("%s\t%s usb:%s product:%s model:%s device:%s\n",
					device.Serial, device.State, device.USB, device.Product, device.Model, device.DeviceInfo)
			}
		} else {
			fmt.Printf("%s\t%s\n", device.Serial, device.State)
		}
	}

	return 0
}

func connect(address string) int {
	h, p, err := manager.ParseAddress(address)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if err := server.Connect(h, p); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func selectDevice() int {
	fmt.Println(bind())
	return 0
}

func info() int {
	desc, err := server.Device(resolveSerial()).Describe()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	fmt.Printf("serial\t%s\n", desc.Serial)
	for _, f := range desc.Fields() {
		if f.OK() {
			fmt.Printf("%s\t%s\n", f.Key, f.Value)
		} else {
			fmt.Printf("%s\t<%s>\n", f.Key, f.Status)
		}
	}
	return 0
}

func props(key string) int {
	properties, err := server.Device(resolveSerial()).Properties()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if key != "" {
		l := properties.Lookup(key)
		if !l.OK() {
			fmt.Fprintf(os.Stderr, "property %s %s\n", key, l.Status)
			return 1
		}
		fmt.Println(l.Value)
		return 0
	}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("[%s]: [%s]\n", k, properties[k])
	}
	return 0
}

func size() int {
	s, ok, err := server.Device(resolveSerial()).DisplaySize()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "no physical size reported")
		return 1
	}
	fmt.Println(s)
	return 0
}

func screencap(showProgress bool, path string) int {
	bind()

	if path != StdIoFilename {
		startTime := time.Now()
		b, err := mgr.CaptureToFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error capturing screen:", err)
			return 1
		}
		printStats(int64(len(b)), time.Since(startTime))
		return 0
	}

	b, err := mgr.CaptureToFile("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error capturing screen:", err)
		return 1
	}
	if err := copyWithProgressAndStats(os.Stdout, bytes.NewReader(b), len(b), showProgress); err != nil {
		fmt.Fprintln(os.Stderr, "error writing capture:", err)
		return 1
	}
	return 0
}

func tap(r manager.Region) int {
	bind()
	if err := mgr.TapRegion(r); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func swipe(x1, y1, x2, y2 int) int {
	bind()
	if err := mgr.Swipe(x1, y1, x2, y2); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func ps() int {
	pp, err := extra.ListProcesses(server.Device(resolveSerial()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	for _, p := range pp {
		fmt.Printf("%s\t%d\t%s\n", p.User, p.Pid, p.Name)
	}
	return 0
}

func kill(name string, sig int) int {
	err := extra.KillProcessByName(server.Device(resolveSerial()), name, syscall.Signal(sig))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func statPackage(name string) int {
	info, err := extra.StatPackage(server.Device(resolveSerial()), name)
	if errors.Cause(err) == extra.ErrPackageNotExist {
		fmt.Fprintln(os.Stderr, "package does not exist:", name)
		return 1
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	fmt.Printf("name\t%s\npath\t%s\nversionCode\t%d\nversionName\t%s\n",
		info.Name, info.Path, info.Version.Code, info.Version.Name)
	return 0
}

// copyWithProgressAndStats copies src to dst.
// If showProgress is true and size is positive, a progress bar is shown.
// After copying, final stats about the transfer speed and size are shown.
// Progress and stats are printed to stderr.
func copyWithProgressAndStats(dst io.Writer, src io.Reader, size int, showProgress bool) error {
	var progress *pb.ProgressBar
	if showProgress && size > 0 {
		progress = pb.New(size)
		// Write to stderr in case dst is stdout.
		progress.Output = os.Stderr
		progress.ShowSpeed = true
		progress.ShowPercent = true
		progress.ShowTimeLeft = true
		progress.SetUnits(pb.U_BYTES)
		progress.Start()
		dst = io.MultiWriter(dst, progress)
	}

	startTime := time.Now()
	copied, err := io.Copy(dst, src)

	if progress != nil {
		progress.Finish()
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok && errno == syscall.EPIPE {
			// Pipe closed. Handle this like an EOF.
			err = nil
		}
	}
	if err != nil {
		return err
	}

	printStats(copied, time.Since(startTime))
	return nil
}

func printStats(copied int64, duration time.Duration) {
	rate := int64(float64(copied) / duration.Seconds())
	fmt.Fprintf(os.Stderr, "%d B/s (%d bytes in %s)\n", rate, copied, duration)
}
