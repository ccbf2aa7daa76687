//go:build linux

package serial

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)

// setBaud115200 sets both input and output speed to 115200 baud via the
// termios Cflag speed bits (B115200), Linux's standard mechanism for
// baud rates in the classic fixed-rate table.
func setBaud115200(fd int, t *unix.Termios) error {
	t.Cflag &^= unix.CBAUD
	t.Cflag |= unix.B115200
	t.Ispeed = unix.B115200
	t.Ospeed = unix.B115200
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
