package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends raw ESC/POS bytes to a receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Ready reports whether the device can be reached right now.
	Ready(ctx context.Context) bool
	Kind() string
}

// Supported printer kinds
const (
	KindNone    = "none"
	KindUSB     = "usb"
	KindNetwork = "network"
)

// usbPrinter writes to a device file such as /dev/usb/lp0, opened per job.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(_ context.Context, data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Ready(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() string { return KindUSB }

// networkPrinter dials a raw TCP port (usually 9100) per job.
type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Ready(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() string { return KindNetwork }

// Null discards every job. Used when no printer is configured.
type Null struct{}

func (Null) Print(context.Context, []byte) error { return nil }
func (Null) Ready(context.Context) bool          { return false }
func (Null) Kind() string                        { return KindNone }

// New returns the printer for kind: "usb" needs usbPath, "network" needs
// address (host:port), "none" or "" returns Null.
func New(kind, usbPath, address string) (Printer, error) {
	switch kind {
	case KindUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return &usbPrinter{path: usbPath}, nil
	case KindNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: PRINTER_ADDRESS is required for network printers")
		}
		return &networkPrinter{address: address, dialTimeout: 3 * time.Second, writeTimeout: 10 * time.Second}, nil
	case KindNone, "":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown type %q (use usb, network or none)", kind)
	}
}
