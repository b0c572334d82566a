package extra

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

type Process struct {
	User string
	Pid  int
	Name string
}

// ListProcesses return list of Process
func ListProcesses(d Sheller) ([]Process, error) {
	// example output of command "ps":
	//     USER  PID  PPID  VSIZE  RSS  WCHAN     PC         NAME
	//     root    1     0    684  540  ffffffff  00000000 S /init
	//     root    2     0      0    0  ffffffff  00000000 S kthreadd
	// newer toybox ps has no state column, so NAME is the last field either way.
	out, err := d.Shell("ps")
	if err != nil {
		return nil, errors.Wrap(err, "ListProcesses")
	}
	return parseProcesses(out)
}

func parseProcesses(out []byte) ([]Process, error) {
	var (
		fieldNames []string
		pp         = make([]Process, 0, 4)
		scanner    = bufio.NewScanner(bytes.NewReader(out))
	)

	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		if fieldNames == nil {
			// as first row
			fieldNames = fields
			continue
		}
		if len(fields) < len(fieldNames) {
			return nil, errors.Errorf("unexpected format: %q", scanner.Text())
		}

		var process Process

		for index, name := range fieldNames {
			value := fields[index]
			switch strings.ToUpper(name) {
			case "PID":
				process.Pid, _ = strconv.Atoi(value)
			case "NAME":
				process.Name = fields[len(fields)-1]
			case "USER":
				process.User = value
			}
		}
		if process.Pid == 0 {
			continue
		}
		pp = append(pp, process)
	}
	return pp, errors.Wrap(scanner.Err(), "parseProcesses")
}

// KillProcessByName sends sig to every process called name.
func KillProcessByName(d Sheller, name string, sig syscall.Signal) error {
	pp, err := ListProcesses(d)
	if err != nil {
		return err
	}
	for _, p := range pp {
		if p.Name != name {
			continue
		}
		_, err := d.Shell("kill", "-"+strconv.Itoa(int(sig)), strconv.Itoa(p.Pid))
		if err != nil {
			return errors.Wrapf(err, "KillProcessByName(%s)", name)
		}
	}
	return nil
}
