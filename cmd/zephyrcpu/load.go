package main

import (
	"fmt"
	"os"

	go6502 "github.com/arlecossec/zephyrdx82-cpu"
)

// loadROM reads the raw memory image at filename into mem starting at
// address $0000, mirroring original_source's memory_load(): the whole
// file is expected to fit in the 64 KiB address space. Unlike the
// original, an oversized image is reported as an error instead of
// silently overrunning the buffer.
func loadROM(mem *go6502.FlatMemory, filename string) (int, error) {
	const maxSize = 0x10000

	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", filename, err)
	}
	if info.Size() > maxSize {
		return 0, fmt.Errorf("loading %s: image too large for 64K address space", filename)
	}

	n, err := mem.LoadFile(0x0000, filename)
	if err != nil {
		return n, fmt.Errorf("loading %s: %w", filename, err)
	}
	return n, nil
}
