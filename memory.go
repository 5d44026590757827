// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package go6502

import (
	"errors"
	"io"
	"os"
)

// An Address on the 6502 is always 16-bit. Arithmetic on it wraps modulo
// 2^16, matching Go's unsigned-integer overflow behavior for the type.
type Address uint16

// Memory errors. ErrMemoryOutOfBounds is wrapped in a BusFaultError (see
// errors.go) whenever it escapes a Step call.
var (
	ErrMemoryOutOfBounds = errors.New("go6502: memory access out of bounds")
)

// Memory is the bus contract the CPU core requires: byte and address
// loads/stores over a flat 16-bit address space. Embedders may substitute
// any implementation — a flat array, a banked system with memory-mapped
// peripherals, or something that returns errors for unmapped regions — as
// long as it satisfies this interface. The core never assumes more.
type Memory interface {
	// LoadByte loads a single byte from the given address.
	LoadByte(addr Address) (byte, error)

	// LoadBytes fills b with bytes starting at addr.
	LoadBytes(addr Address, b []byte) error

	// LoadAddress loads a 16-bit little-endian address value starting at
	// addr. When addr's low byte is 0xff, the high byte is read from
	// (addr & 0xff00) rather than addr+1, reproducing the page-wrap bug of
	// the NMOS 6502's indirect addressing.
	LoadAddress(addr Address) (Address, error)

	// StoreByte stores a byte at the given address.
	StoreByte(addr Address, v byte) error

	// StoreBytes stores b starting at addr.
	StoreBytes(addr Address, b []byte) error
}

// FlatMemory is the default Memory implementation: a single contiguous
// 64 KiB byte array with no access restrictions. It never faults.
type FlatMemory struct {
	data [65536]byte
}

// NewFlatMemory creates a new 16-bit memory space, initialized to zeroes.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte reads a byte from memory at address 'addr'.
func (m *FlatMemory) LoadByte(addr Address) (byte, error) {
	return m.data[addr], nil
}

// LoadBytes reads len(b) bytes of memory starting at address 'addr' into b.
func (m *FlatMemory) LoadBytes(addr Address, b []byte) error {
	for i := range b {
		b[i] = m.data[addr+Address(i)]
	}
	return nil
}

// LoadAddress reads a 16-bit address from memory at address 'addr',
// honoring the classic page-wrap quirk when addr's low byte is 0xff.
func (m *FlatMemory) LoadAddress(addr Address) (Address, error) {
	if (addr & 0xff) == 0xff {
		return Address(m.data[addr]) | Address(m.data[addr&0xff00])<<8, nil
	}
	return Address(m.data[addr]) | Address(m.data[addr+1])<<8, nil
}

// StoreByte stores a byte 'v' to memory at the address 'addr'.
func (m *FlatMemory) StoreByte(addr Address, v byte) error {
	m.data[addr] = v
	return nil
}

// StoreBytes stores the byte slice 'b' to memory starting at address 'addr'.
func (m *FlatMemory) StoreBytes(addr Address, b []byte) error {
	copy(m.data[int(addr):], b)
	return nil
}

// LoadFile loads the contents of the file at 'filename' into memory
// starting at address 'addr'. It is the ROM-loading collaborator
// described by the core's external contract: the core itself never reads
// from disk.
func (m *FlatMemory) LoadFile(addr Address, filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	n, err := io.ReadFull(file, m.data[addr:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return n, err
	}
	return n, nil
}

// A MemoryBank represents a region of memory with its own address range.
// SystemMemory composes one or more banks (RAM, ROM, memory-mapped
// peripherals) into a single addressable bus.
type MemoryBank interface {
	AddressRange() (start, end Address)
	LoadByte(addr Address) byte
	LoadAddress(addr Address) Address
	StoreByte(addr Address, v byte)
}

// bankAccess is a bitmask of the operations a bank is registered to handle.
type bankAccess int

const (
	bankRead bankAccess = 1 << iota
	bankWrite
)

// page associates a single 256-byte page of the address space with the
// bank that currently handles its reads and writes.
type page struct {
	read  MemoryBank
	write MemoryBank
}

// SystemMemory composes multiple memory banks (e.g RAM, ROM, a
// memory-mapped I/O device) into a single 64 KiB bus. It satisfies Memory,
// so it may be handed to NewCPU in place of FlatMemory whenever an
// embedder needs bank-routed memory. Addresses not covered by any active
// bank return ErrMemoryOutOfBounds.
type SystemMemory struct {
	banks map[MemoryBank]bankAccess
	pages [256]page
}

// NewSystemMemory creates an empty system memory bus with no banks
// installed.
func NewSystemMemory() *SystemMemory {
	return &SystemMemory{
		banks: make(map[MemoryBank]bankAccess),
	}
}

// AddBank registers a memory bank. The bank starts inactive for both
// reads and writes until ActivateBank is called.
func (m *SystemMemory) AddBank(b MemoryBank) {
	m.banks[b] = 0
}

// RemoveBank deactivates and forgets a memory bank.
func (m *SystemMemory) RemoveBank(b MemoryBank) {
	active, ok := m.banks[b]
	if !ok {
		return
	}
	if active != 0 {
		m.DeactivateBank(b, active)
	}
	delete(m.banks, b)
}

// ActivateBank enables a bank to handle reads, writes, or both over its
// address range.
func (m *SystemMemory) ActivateBank(b MemoryBank, access bankAccess) {
	active, ok := m.banks[b]
	if !ok {
		return
	}

	enableReads := (access&bankRead) != 0 && (active&bankRead) == 0
	enableWrites := (access&bankWrite) != 0 && (active&bankWrite) == 0
	if !enableReads && !enableWrites {
		return
	}

	m.banks[b] = active | access

	start, end := b.AddressRange()
	for i, j := start>>8, end>>8; i < j; i++ {
		if enableReads {
			m.pages[i].read = b
		}
		if enableWrites {
			m.pages[i].write = b
		}
	}
}

// DeactivateBank disables a bank's handling of reads, writes, or both.
func (m *SystemMemory) DeactivateBank(b MemoryBank, access bankAccess) {
	active, ok := m.banks[b]
	if !ok {
		return
	}

	disableReads := (access&bankRead) != 0 && (active&bankRead) != 0
	disableWrites := (access&bankWrite) != 0 && (active&bankWrite) != 0
	if !disableReads && !disableWrites {
		return
	}

	m.banks[b] = active &^ access

	start, end := b.AddressRange()
	for i, j := start>>8, end>>8; i < j; i++ {
		if disableReads {
			m.pages[i].read = nil
		}
		if disableWrites {
			m.pages[i].write = nil
		}
	}
}

// LoadByte loads a byte from the requested address.
func (m *SystemMemory) LoadByte(addr Address) (byte, error) {
	b := m.pages[addr>>8].read
	if b == nil {
		return 0, ErrMemoryOutOfBounds
	}
	return b.LoadByte(addr), nil
}

// LoadBytes fills b with bytes starting at addr.
func (m *SystemMemory) LoadBytes(addr Address, buf []byte) error {
	for i := range buf {
		v, err := m.LoadByte(addr + Address(i))
		if err != nil {
			return err
		}
		buf[i] = v
	}
	return nil
}

// LoadAddress loads a 16-bit address from the requested address.
func (m *SystemMemory) LoadAddress(addr Address) (Address, error) {
	b := m.pages[addr>>8].read
	if b == nil {
		return 0, ErrMemoryOutOfBounds
	}
	return b.LoadAddress(addr), nil
}

// StoreByte stores a byte to the requested address.
func (m *SystemMemory) StoreByte(addr Address, v byte) error {
	b := m.pages[addr>>8].write
	if b == nil {
		return ErrMemoryOutOfBounds
	}
	b.StoreByte(addr, v)
	return nil
}

// StoreBytes stores b starting at addr.
func (m *SystemMemory) StoreBytes(addr Address, buf []byte) error {
	for i, v := range buf {
		if err := m.StoreByte(addr+Address(i), v); err != nil {
			return err
		}
	}
	return nil
}

// RAM is a read/write memory bank.
type RAM struct {
	start Address
	end   Address
	buf   []byte
}

// NewRAM creates a RAM bank of 'size' bytes starting at 'addr'. Its
// contents are initialized to zero. size must be a multiple of the
// 256-byte page size.
func NewRAM(addr Address, size int) *RAM {
	if int(addr)+size > 0x10000 {
		panic("go6502: RAM address range exceeds 64K")
	}
	if size&0xff != 0 {
		panic("go6502: RAM size must be a multiple of the 256-byte page size")
	}
	return &RAM{
		start: addr,
		end:   addr + Address(size),
		buf:   make([]byte, size),
	}
}

// AddressRange returns the range of addresses handled by the RAM bank.
func (r *RAM) AddressRange() (start, end Address) {
	return r.start, r.end
}

// LoadByte returns the byte at the requested address.
func (r *RAM) LoadByte(addr Address) byte {
	return r.buf[addr-r.start]
}

// LoadAddress loads a 16-bit address from the requested address, honoring
// the page-wrap quirk within the bank.
func (r *RAM) LoadAddress(addr Address) Address {
	i := int(addr - r.start)
	if (i & 0xff) == 0xff {
		return Address(r.buf[i]) | Address(r.buf[i-0xff])<<8
	}
	return Address(r.buf[i]) | Address(r.buf[i+1])<<8
}

// StoreByte stores a byte at the requested address.
func (r *RAM) StoreByte(addr Address, v byte) {
	r.buf[addr-r.start] = v
}

// ROM is a read-only memory bank. Writes to it are silently ignored.
type ROM struct {
	start Address
	end   Address
	buf   []byte
}

// NewROM creates a ROM bank at 'addr', initialized with the contents of
// 'b'. len(b) must be a multiple of the 256-byte page size.
func NewROM(addr Address, b []byte) *ROM {
	if int(addr)+len(b) > 0x10000 {
		panic("go6502: ROM address range exceeds 64K")
	}
	if len(b)&0xff != 0 {
		panic("go6502: ROM size must be a multiple of the 256-byte page size")
	}
	rom := &ROM{
		start: addr,
		end:   addr + Address(len(b)),
		buf:   make([]byte, len(b)),
	}
	copy(rom.buf, b)
	return rom
}

// AddressRange returns the range of addresses handled by the ROM bank.
func (r *ROM) AddressRange() (start, end Address) {
	return r.start, r.end
}

// LoadByte returns the byte at the requested address.
func (r *ROM) LoadByte(addr Address) byte {
	return r.buf[addr-r.start]
}

// LoadAddress loads a 16-bit address from the requested address, honoring
// the page-wrap quirk within the bank.
func (r *ROM) LoadAddress(addr Address) Address {
	i := int(addr - r.start)
	if (i & 0xff) == 0xff {
		return Address(r.buf[i]) | Address(r.buf[i-0xff])<<8
	}
	return Address(r.buf[i]) | Address(r.buf[i+1])<<8
}

// StoreByte does nothing; ROM cannot be written.
func (r *ROM) StoreByte(addr Address, v byte) {
}

// offsetAddress returns addr+offset along with whether the addition
// crossed a page boundary.
func offsetAddress(addr Address, offset byte) (newAddr Address, pageCrossed bool) {
	newAddr = addr + Address(offset)
	pageCrossed = (newAddr & 0xff00) != (addr & 0xff00)
	return newAddr, pageCrossed
}

// offsetZeroPage adds offset to a zero-page address, wrapping within the
// zero page instead of carrying into page 1.
func offsetZeroPage(addr Address, offset byte) Address {
	addr += Address(offset)
	if addr >= 0x100 {
		addr -= 0x100
	}
	return addr
}

// operandToAddress converts a 1- or 2-byte little-endian operand into an
// Address.
func operandToAddress(operand []byte) Address {
	switch len(operand) {
	case 1:
		return Address(operand[0])
	case 2:
		return Address(operand[0]) | Address(operand[1])<<8
	}
	return 0
}

// stackAddress returns the memory address of the stack slot identified by
// the 8-bit stack pointer offset.
func stackAddress(offset byte) Address {
	return 0x100 + Address(offset)
}
