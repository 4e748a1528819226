//go:build windows

package memory

import (
	"math"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	globalMemoryStatusEx = kernel32.NewProc("GlobalMemoryStatusEx")
)

type memoryStatusEx struct {
	length               uint32
	memoryLoad           uint32
	totalPhys            uint64
	availPhys            uint64
	totalPageFile        uint64
	availPageFile        uint64
	totalVirtual         uint64
	availVirtual         uint64
	availExtendedVirtual uint64
}

// availableRAM reads ullTotalPhys via GlobalMemoryStatusEx.
func availableRAM() int64 {
	var status memoryStatusEx
	status.length = uint32(unsafe.Sizeof(status))

	ret, _, _ := globalMemoryStatusEx.Call(uintptr(unsafe.Pointer(&status)))
	if ret == 0 {
		return math.MaxInt64
	}
	if status.totalPhys > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(status.totalPhys)
}
