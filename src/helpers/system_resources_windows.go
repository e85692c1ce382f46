//go:build windows

package helpers

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// GetTotalSystemMemoryMB returns the total physical memory in MB, or 0 when
// it cannot be read.
func GetTotalSystemMemoryMB() int {
	var status windows.MemoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))
	if err := windows.GlobalMemoryStatusEx(&status); err != nil {
		return 0
	}
	return int(status.TotalPhys / 1024 / 1024)
}
