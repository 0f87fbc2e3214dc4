package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// Printer sends raw ESC/POS data to a receipt printer.
type Printer interface {
	// Print sends one job. Implementations honour ctx cancellation where the
	// underlying transport allows it.
	Print(ctx context.Context, data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected returns true if the printer is reachable.
	IsConnected() bool
	// Kind names the printer type ("usb", "network", "spool", "none").
	Kind() string
}

// --- USB Printer (writes to device file, e.g. /dev/usb/lp0) ---

type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error { return nil }

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() string { return "usb" }

// --- Network Printer (raw TCP, e.g. 192.168.1.100:9100) ---

type networkPrinter struct {
	address string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP.
// Address should include port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		timeout: 5 * time.Second,
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error { return nil }

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() string { return "network" }

// --- Spool Printer (drops jobs into a directory watched by the host print system) ---

type spoolPrinter struct {
	dir string
	seq atomic.Uint64
	now func() time.Time
}

// NewSpoolPrinter creates a printer that writes each job as a .bin file in
// dir. The directory is created if missing.
func NewSpoolPrinter(dir string) (Printer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("printer: failed to create spool dir %s: %w", dir, err)
	}
	return &spoolPrinter{dir: dir, now: time.Now}, nil
}

func (p *spoolPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := fmt.Sprintf("receipt-%d-%04d.bin", p.now().UnixMilli(), p.seq.Add(1))
	tmp := filepath.Join(p.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("printer: failed to spool job: %w", err)
	}
	// Rename so the watcher never picks up a partial file.
	if err := os.Rename(tmp, filepath.Join(p.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("printer: failed to spool job: %w", err)
	}
	return nil
}

func (p *spoolPrinter) Close() error { return nil }

func (p *spoolPrinter) IsConnected() bool {
	info, err := os.Stat(p.dir)
	return err == nil && info.IsDir()
}

func (p *spoolPrinter) Kind() string { return "spool" }

// --- Null Printer (no-op, used when no printer is configured) ---

type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for environments without hardware.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(ctx context.Context, data []byte) error { return nil }

func (p *nullPrinter) Close() error { return nil }

func (p *nullPrinter) IsConnected() bool { return false }

func (p *nullPrinter) Kind() string { return "none" }

// Options selects and configures a printer
type Options struct {
	Type     string // "usb", "network", "spool" or "none"
	USBPath  string // e.g. "/dev/usb/lp0"
	Address  string // e.g. "192.168.1.100:9100"
	SpoolDir string // e.g. "/var/spool/pos"
}

// NewPrinterFromConfig creates the appropriate Printer based on type.
func NewPrinterFromConfig(opts Options) (Printer, error) {
	switch opts.Type {
	case "usb":
		if opts.USBPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(opts.USBPath), nil
	case "network":
		if opts.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(opts.Address), nil
	case "spool":
		if opts.SpoolDir == "" {
			return nil, fmt.Errorf("printer: spool dir is required for spool printer type")
		}
		return NewSpoolPrinter(opts.SpoolDir)
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, spool, or none)", opts.Type)
	}
}
