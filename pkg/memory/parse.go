package memory

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"
)

// readMeminfoTotal parses the first line of /proc/meminfo:
//
//	MemTotal:       16384516 kB
//
// The value is reported in KiB. Any read or parse failure returns MaxInt64,
// which the plausibility check upstream turns into a startup failure.
func readMeminfoTotal(path string) int64 {
	f, err := os.Open(path)
	if err != nil {
		return math.MaxInt64
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return math.MaxInt64
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 2 {
		return math.MaxInt64
	}

	kb, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return kb * 1024
}

// readCgroupLimit reads a cgroup memory limit file. A missing file and the
// literal "max" both mean no limit; a parse error also reports no limit so a
// malformed cgroup tree cannot shrink the pools below what the host has.
func readCgroupLimit(path string) int64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return math.MaxInt64
	}

	value := strings.TrimSpace(string(data))
	if value == "max" {
		return math.MaxInt64
	}

	limit, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return limit
}
