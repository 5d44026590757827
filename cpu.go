// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package go6502 implements the core of a MOS 6502 CPU: registers, the
// documented NMOS instruction set, and a byte-addressable memory bus
// abstraction. It contains no I/O, no clock pacing, and no disassembler;
// those are the responsibility of an embedder.
package go6502

// Interrupt vectors. Reset honors vectorReset; IRQ and BRK share a vector,
// as on real hardware.
const (
	vectorNMI   = Address(0xfffa)
	vectorReset = Address(0xfffc)
	vectorIRQ   = Address(0xfffe)
)

// CPU represents a single 6502 CPU bound to a Memory bus. It holds no
// goroutines and performs no I/O of its own; Step must be called
// repeatedly by the embedder to advance execution.
type CPU struct {
	Reg    Registers // CPU registers
	Mem    Memory    // assigned memory bus
	Cycles uint64    // total executed CPU cycles

	// StrictMode, when true, causes Step to return an IllegalOpcodeError
	// for any opcode outside the documented instruction set. When false
	// (the default), illegal opcodes consume zero cycles and advance PC
	// by one byte.
	StrictMode bool

	instructions *InstructionSet
	irqPending   bool
	nmiPending   bool
	pageCrossed  bool
	deltaCycles  int8
}

// NewCPU creates an emulated 6502 CPU bound to the given memory bus. The
// CPU's registers start in their power-on state (see Registers.Init);
// call Reset to additionally load the program counter from the reset
// vector.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:          m,
		instructions: GetInstructionSet(),
	}
	cpu.Reg.Init()
	return cpu
}

// SetPC sets the CPU's program counter, bypassing the normal reset
// sequence. It is useful for tests and for embedders that load a program
// directly without a reset vector.
func (c *CPU) SetPC(addr Address) {
	c.Reg.PC = addr
}

// Reset initializes the registers to their power-on state and loads the
// program counter from the reset vector at $FFFC/$FFFD. Per the reset
// sequence, SP is left at $FD (as if three bytes had been pushed) and
// InterruptDisable is set; all other flags are cleared. It returns a
// BusFaultError if the vector cannot be read.
func (c *CPU) Reset() error {
	c.Reg.Init()
	c.Reg.SP = 0xfd
	c.Reg.InterruptDisable = true
	pc, err := c.Mem.LoadAddress(vectorReset)
	if err != nil {
		return busFault(vectorReset, err)
	}
	c.Reg.PC = pc
	c.irqPending = false
	c.nmiPending = false
	return nil
}

// IRQ requests a maskable interrupt. The request is sampled at the start
// of the next Step call; if InterruptDisable is set at that time, the
// request is dropped without effect, matching real 6502 behavior.
func (c *CPU) IRQ() {
	c.irqPending = true
}

// NMI requests a non-maskable interrupt. Unlike IRQ, it is always
// honored the next time Step samples it, regardless of InterruptDisable.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// Snapshot returns a copy of the CPU's register file. The caller's copy
// cannot be used to mutate the live CPU state.
func (c *CPU) Snapshot() Registers {
	return c.Reg
}

// Step executes a single instruction. It returns the number of cycles
// consumed and an error if the memory bus faulted, an illegal opcode was
// fetched while StrictMode is enabled, or a halt was requested.
//
// Whenever an error is returned, the returned cycle count is 0 and Cycles
// is not advanced. An IllegalOpcodeError leaves PC just past the offending
// opcode byte. ErrHaltRequested is returned by BRK after its interrupt
// entry has completed, so PC already holds the address read from the
// IRQ/BRK vector. A BusFaultError may leave the registers and memory
// partially updated by the instruction that faulted.
func (c *CPU) Step() (int, error) {
	if c.nmiPending {
		c.nmiPending = false
		if err := c.handleInterrupt(vectorNMI, false); err != nil {
			return 0, err
		}
		return 7, nil
	}
	if c.irqPending {
		c.irqPending = false
		if !c.Reg.InterruptDisable {
			if err := c.handleInterrupt(vectorIRQ, false); err != nil {
				return 0, err
			}
			return 7, nil
		}
	}

	pc := c.Reg.PC
	opcode, err := c.Mem.LoadByte(pc)
	if err != nil {
		return 0, busFault(pc, err)
	}

	inst := c.instructions.Lookup(opcode)
	if inst.fn == nil {
		c.Reg.PC++
		if c.StrictMode {
			return 0, &IllegalOpcodeError{Opcode: opcode, PC: pc}
		}
		return 0, nil
	}

	operand := make([]byte, inst.Length-1)
	if len(operand) > 0 {
		if err := c.Mem.LoadBytes(pc+1, operand); err != nil {
			return 0, busFault(pc+1, err)
		}
	}

	c.Reg.PC += Address(inst.Length)
	c.pageCrossed = false
	c.deltaCycles = 0

	if err := inst.fn(c, inst, operand); err != nil {
		return 0, err
	}

	cycles := int(inst.Cycles) + int(c.deltaCycles)
	if c.pageCrossed {
		cycles += int(inst.BPCycles)
	}
	c.Cycles += uint64(cycles)
	return cycles, nil
}

// handleInterrupt pushes PC and the processor status onto the stack,
// disables further IRQs, and loads PC from the given vector. brk is true
// only when the interrupt originates from a BRK instruction, so that the
// pushed status byte carries the correct Break bit.
func (c *CPU) handleInterrupt(vector Address, brk bool) error {
	if err := c.pushAddress(c.Reg.PC); err != nil {
		return err
	}
	if err := c.push(c.Reg.SavePS(brk)); err != nil {
		return err
	}
	c.Reg.InterruptDisable = true

	pc, err := c.Mem.LoadAddress(vector)
	if err != nil {
		return busFault(vector, err)
	}
	c.Reg.PC = pc
	return nil
}

// load reads the operand addressed by the instruction's mode, returning
// the value the instruction should operate on. For ACC and IMM modes it
// reads directly from the register or operand bytes; all other modes
// dereference memory through loadAddress.
func (c *CPU) load(inst *Instruction, operand []byte) (byte, error) {
	switch inst.Mode {
	case ACC:
		return c.Reg.A, nil
	case IMM:
		return operand[0], nil
	default:
		addr, err := c.loadAddress(inst, operand)
		if err != nil {
			return 0, err
		}
		v, err := c.Mem.LoadByte(addr)
		if err != nil {
			return 0, busFault(addr, err)
		}
		return v, nil
	}
}

// loadAddress resolves the effective address for an instruction's
// operand, given its addressing mode. It sets c.pageCrossed when an
// indexed mode crosses a page boundary, so Step can apply the
// instruction's page-crossing cycle penalty.
func (c *CPU) loadAddress(inst *Instruction, operand []byte) (Address, error) {
	switch inst.Mode {
	case ZPG:
		return operandToAddress(operand), nil

	case ZPX:
		return offsetZeroPage(operandToAddress(operand), c.Reg.X), nil

	case ZPY:
		return offsetZeroPage(operandToAddress(operand), c.Reg.Y), nil

	case ABS:
		return operandToAddress(operand), nil

	case ABX:
		addr, crossed := offsetAddress(operandToAddress(operand), c.Reg.X)
		c.pageCrossed = crossed
		return addr, nil

	case ABY:
		addr, crossed := offsetAddress(operandToAddress(operand), c.Reg.Y)
		c.pageCrossed = crossed
		return addr, nil

	case IND:
		ptr := operandToAddress(operand)
		addr, err := c.Mem.LoadAddress(ptr)
		if err != nil {
			return 0, busFault(ptr, err)
		}
		return addr, nil

	case IDX:
		ptr := offsetZeroPage(operandToAddress(operand), c.Reg.X)
		addr, err := c.Mem.LoadAddress(ptr)
		if err != nil {
			return 0, busFault(ptr, err)
		}
		return addr, nil

	case IDY:
		ptr := operandToAddress(operand)
		base, err := c.Mem.LoadAddress(ptr)
		if err != nil {
			return 0, busFault(ptr, err)
		}
		addr, crossed := offsetAddress(base, c.Reg.Y)
		c.pageCrossed = crossed
		return addr, nil

	case REL:
		offset := int8(operand[0])
		return Address(int32(c.Reg.PC) + int32(offset)), nil
	}

	return operandToAddress(operand), nil
}

// store writes v to the destination addressed by the instruction's mode.
// ACC mode writes directly to the accumulator; all other supported modes
// (ZPG, ZPX, ZPY, ABS, ABX, ABY, IDX, IDY) write through memory.
func (c *CPU) store(inst *Instruction, operand []byte, v byte) error {
	if inst.Mode == ACC {
		c.Reg.A = v
		return nil
	}
	addr, err := c.loadAddress(inst, operand)
	if err != nil {
		return err
	}
	if err := c.Mem.StoreByte(addr, v); err != nil {
		return busFault(addr, err)
	}
	return nil
}

// branch performs the PC update for a taken branch, computing the extra
// cycle penalty: 1 cycle for a taken branch, plus 1 more if it crosses a
// page boundary.
func (c *CPU) branch(inst *Instruction, operand []byte) {
	newPC, _ := c.loadAddress(inst, operand)
	c.deltaCycles++
	if (newPC & 0xff00) != (c.Reg.PC & 0xff00) {
		c.deltaCycles++
	}
	c.Reg.PC = newPC
}

// push pushes a byte onto the stack at $0100+SP, decrementing SP.
func (c *CPU) push(v byte) error {
	addr := stackAddress(c.Reg.SP)
	if err := c.Mem.StoreByte(addr, v); err != nil {
		return busFault(addr, err)
	}
	c.Reg.SP--
	return nil
}

// pushAddress pushes a 16-bit address onto the stack, high byte first, so
// that a subsequent pop/popAddress pair restores it in the correct order.
func (c *CPU) pushAddress(addr Address) error {
	if err := c.push(byte(addr >> 8)); err != nil {
		return err
	}
	return c.push(byte(addr))
}

// pop pops a byte from the stack, incrementing SP first.
func (c *CPU) pop() (byte, error) {
	c.Reg.SP++
	addr := stackAddress(c.Reg.SP)
	v, err := c.Mem.LoadByte(addr)
	if err != nil {
		return 0, busFault(addr, err)
	}
	return v, nil
}

// popAddress pops a 16-bit address from the stack, low byte first.
func (c *CPU) popAddress() (Address, error) {
	lo, err := c.pop()
	if err != nil {
		return 0, err
	}
	hi, err := c.pop()
	if err != nil {
		return 0, err
	}
	return Address(lo) | Address(hi)<<8, nil
}

// updateNZ sets the Zero and Sign flags based on the value v, as almost
// every data-moving and arithmetic instruction does.
func (c *CPU) updateNZ(v byte) {
	c.Reg.Zero = v == 0
	c.Reg.Sign = (v & 0x80) != 0
}
