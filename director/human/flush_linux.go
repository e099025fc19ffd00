package human

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// flushTerminal drops the unread input queue of a terminal. It reports
// false when file is not a terminal.
func flushTerminal(file *os.File) (bool, error) {
	raw, err := file.SyscallConn()
	if err != nil {
		return false, nil
	}

	var isTerminal bool
	var flushErr error
	err = raw.Control(func(fd uintptr) {
		if _, err := unix.IoctlGetTermios(int(fd), unix.TCGETS); err != nil {
			return
		}
		isTerminal = true
		flushErr = unix.IoctlSetInt(int(fd), unix.TCFLSH, unix.TCIFLUSH)
	})
	if err != nil {
		return false, nil
	}
	return isTerminal, errors.Wrap(flushErr, "flushing terminal input")
}
