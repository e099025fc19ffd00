//go:build !linux

package human

import "os"

func flushTerminal(file *os.File) (bool, error) {
	return false, nil
}
