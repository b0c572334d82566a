package manager

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Prompter asks the user questions on a line-oriented console.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints prompt and reads one line. A final line without a newline is
// still an answer; input that ends before any answer returns
// io.ErrUnexpectedEOF, so a closed console never picks a default.
func (p *Prompter) Ask(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line == "" {
		return "", errors.Wrap(io.ErrUnexpectedEOF, "Ask")
	}
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "Ask")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Println writes a line to the console.
func (p *Prompter) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

// SelectDevice picks the serial to bind. A single attached device is taken
// as is; with none the user is asked for a remote address to connect to;
// with several the user picks from a menu.
//
// Invalid answers are returned as *InputError, *IndexError or *AddressError,
// and closed input as io.ErrUnexpectedEOF. A remote address the server
// fails to connect aborts the selection with the Connect error instead of
// returning the unreachable address.
func (m *Manager) SelectDevice(p *Prompter) (string, error) {
	serials, err := m.server.ListDeviceSerials()
	if err != nil {
		return "", errors.Wrap(err, "SelectDevice")
	}

	switch len(serials) {
	case 0:
		p.Println("No device detected.")
		return m.connectRemote(p)
	case 1:
		m.log.Info("selected the only attached device", "serial", serials[0])
		return serials[0], nil
	}

	p.Println("Attached devices, enter the index of the device to use:")
	for i, serial := range serials {
		p.Println(fmt.Sprintf("[%d] - %s", i, serial))
	}
	p.Println(fmt.Sprintf("[%d] - enter device ip and port manually", ManualEntry))

	answer, err := p.Ask("")
	if err != nil {
		return "", err
	}
	index, err := ParseIndex(answer)
	if err != nil {
		m.log.Error("please enter a valid index", "input", answer)
		return "", err
	}
	serial, manual, err := ChooseSerial(serials, index)
	if err != nil {
		m.log.Error("please enter a valid index", "input", answer)
		return "", err
	}
	if manual {
		return m.connectRemote(p)
	}
	m.log.Info("selected device", "index", index, "serial", serial)
	return serial, nil
}

func (m *Manager) connectRemote(p *Prompter) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("Enter device ip:port to connect to, default %s\n", DefaultRemoteAddress))
	if err != nil {
		return "", err
	}
	host, port, err := ParseAddress(answer)
	if err != nil {
		return "", err
	}
	if err := m.server.Connect(host, port); err != nil {
		return "", errors.Wrap(err, "SelectDevice")
	}
	serial := net.JoinHostPort(host, strconv.Itoa(port))
	m.log.Info("connected remote device", "serial", serial)
	return serial, nil
}
