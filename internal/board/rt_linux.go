//go:build linux

package board

import "golang.org/x/sys/unix"

// lockMemory keeps current and future pages resident.
func lockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
