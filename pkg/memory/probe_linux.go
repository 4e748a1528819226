//go:build linux

package memory

const (
	meminfoPath  = "/proc/meminfo"
	cgroupV1Path = "/sys/fs/cgroup/memory/memory.limit_in_bytes"
	cgroupV2Path = "/sys/fs/cgroup/memory.max"
)

// availableRAM discovers how much memory the process may actually use: the
// smaller of physical RAM and whichever cgroup limit applies. A missing
// cgroup file or the literal "max" means no limit.
func availableRAM() int64 {
	ram := readMeminfoTotal(meminfoPath)

	if limit := readCgroupLimit(cgroupV1Path); limit < ram {
		ram = limit
	}
	if limit := readCgroupLimit(cgroupV2Path); limit < ram {
		ram = limit
	}

	return ram
}
