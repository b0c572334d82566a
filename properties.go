package adb

import (
	"regexp"
	"strconv"
	"strings"
)

// Well-known system properties.
const (
	PropDeviceName   = "ro.product.device"
	PropManufacturer = "ro.product.manufacturer"
	PropModel        = "ro.product.model"
	PropCPUABI       = "ro.product.cpu.abi"
	PropOSVersion    = "ro.build.version.release"
)

var (
	sizePattern     = regexp.MustCompile(`Physical size:\s(\d+)x(\d+)`)
	propertyPattern = regexp.MustCompile(`^\[(.*?)\]: \[(.*)\]\r?$`)
)

// Size is a display size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

func parseSize(out []byte) (Size, bool) {
	m := sizePattern.FindSubmatch(out)
	if m == nil {
		return Size{}, false
	}
	w, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return Size{}, false
	}
	h, err := strconv.Atoi(string(m[2]))
	if err != nil {
		return Size{}, false
	}
	return Size{Width: w, Height: h}, true
}

// Properties is a snapshot of the device's system properties.
type Properties map[string]string

func parseProperties(out []byte) Properties {
	props := Properties{}
	for _, line := range strings.Split(string(out), "\n") {
		m := propertyPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		props[m[1]] = m[2]
	}
	return props
}

// Lookup returns the value of key, or a NotFound Lookup.
func (p Properties) Lookup(key string) Lookup {
	v, ok := p[key]
	if !ok {
		return Lookup{Key: key, Status: NotFound}
	}
	return Lookup{Key: key, Value: v, Status: Present}
}

// LookupStatus tells whether a looked up value can be used.
type LookupStatus uint8

const (
	NotFound LookupStatus = iota
	Present
	Malformed
)

func (s LookupStatus) String() string {
	switch s {
	case NotFound:
		return "not found"
	case Present:
		return "present"
	case Malformed:
		return "malformed"
	default:
		return "<invalid LookupStatus>"
	}
}

// Lookup is the outcome of reading one descriptive value off a device.
type Lookup struct {
	Key    string
	Value  string
	Status LookupStatus
}

// OK reports whether Value holds a usable value.
func (l Lookup) OK() bool {
	return l.Status == Present
}

// Description is what gets reported about a freshly bound device.
type Description struct {
	Serial       string
	Name         Lookup
	Manufacturer Lookup
	Model        Lookup
	CPUABI       Lookup
	OSVersion    Lookup
	Resolution   Lookup
}

// Fields returns the lookups in reporting order.
func (d Description) Fields() []Lookup {
	return []Lookup{d.Name, d.Manufacturer, d.Model, d.CPUABI, d.OSVersion, d.Resolution}
}

// Describe builds a Description from a property snapshot and a size query.
// The resolution is rendered as <width>x<height>.
func Describe(serial string, props Properties, size Size, sizeOK bool) Description {
	res := Lookup{Key: "resolution", Status: NotFound}
	switch {
	case !sizeOK:
	case size.Width <= 0 || size.Height <= 0:
		res.Value = size.String()
		res.Status = Malformed
	default:
		res.Value = size.String()
		res.Status = Present
	}
	return Description{
		Serial:       serial,
		Name:         props.Lookup(PropDeviceName),
		Manufacturer: props.Lookup(PropManufacturer),
		Model:        props.Lookup(PropModel),
		CPUABI:       props.Lookup(PropCPUABI),
		OSVersion:    props.Lookup(PropOSVersion),
		Resolution:   res,
	}
}
