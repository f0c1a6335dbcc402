//go:build !linux

package board

import "errors"

func lockMemory() error {
	return errors.New("memory locking is only supported on linux")
}
