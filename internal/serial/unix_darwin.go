//go:build darwin

package serial

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)

// setBaud115200 sets both input and output speed to 115200 baud.
// Darwin's termios carries the speed directly in Ispeed/Ospeed rather
// than in a Cflag bit table.
func setBaud115200(fd int, t *unix.Termios) error {
	t.Ispeed = 115200
	t.Ospeed = 115200
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
