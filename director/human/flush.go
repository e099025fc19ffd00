package human

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// How long to wait for more bytes while draining a pipe
const drainWait = 10 * time.Millisecond

// flushInput discards input the OS holds for file but has not delivered
// yet. Terminals have their input queue flushed; pipes are drained until
// they go quiet. Regular files are left alone.
func flushInput(file *os.File, log logrus.FieldLogger) {
	flushed, err := flushTerminal(file)
	if err != nil {
		log.WithError(err).Warn("Failed to flush terminal input")
	}
	if !flushed {
		drainPipe(file)
	}
}

func drainPipe(file *os.File) {
	if err := file.SetReadDeadline(time.Now().Add(drainWait)); err != nil {
		return
	}
	defer file.SetReadDeadline(time.Time{})

	buf := make([]byte, 512)
	for {
		if _, err := file.Read(buf); err != nil {
			return
		}
		file.SetReadDeadline(time.Now().Add(drainWait))
	}
}
