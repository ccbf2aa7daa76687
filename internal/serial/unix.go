//go:build linux || darwin

package serial

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// unixPort is the non-Windows Port implementation: it opens a tty
// device node directly and configures it via termios ioctls, the same
// RTS+DTR-assert, 115200 8N1 link spec.md §4.6 and §6 specify. This
// repurposes the teacher's golang.org/x/sys dependency (there used for
// Windows host-input injection) for real serial hardware configuration.
type unixPort struct {
	*bufferedPort
	file *os.File
}

// Open opens path as a 115200 8N1 serial port with RTS and DTR
// asserted.
func Open(path string) (Port, error) {
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: opening %s: %w", path, err)
	}

	if err := configureTermios(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("serial: configuring %s: %w", path, err)
	}
	if err := assertRTSDTR(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("serial: asserting RTS/DTR on %s: %w", path, err)
	}

	return &unixPort{bufferedPort: newBufferedPort(f), file: f}, nil
}

func configureTermios(f *os.File) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	// VMIN=0, VTIME=0: a read with nothing pending returns at once, which
	// bufferedPort sees as io.EOF ("no bytes yet") and retries.
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, t); err != nil {
		return err
	}
	return setBaud115200(fd, t)
}

func assertRTSDTR(f *os.File) error {
	fd := int(f.Fd())
	bits, err := unix.IoctlGetInt(fd, unix.TIOCMGET)
	if err != nil {
		return err
	}
	bits |= unix.TIOCM_RTS | unix.TIOCM_DTR
	return unix.IoctlSetPointerInt(fd, unix.TIOCMSET, bits)
}
