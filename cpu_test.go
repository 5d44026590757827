package go6502_test

import (
	"testing"

	go6502 "github.com/arlecossec/zephyrdx82-cpu"
)

// loadCPU builds a CPU over a fresh FlatMemory, pokes code at addr, and
// sets PC to addr without touching the reset vector.
func loadCPU(code []byte, addr go6502.Address) (*go6502.CPU, *go6502.FlatMemory) {
	mem := go6502.NewFlatMemory()
	mem.StoreBytes(addr, code)
	cpu := go6502.NewCPU(mem)
	cpu.SetPC(addr)
	return cpu, mem
}

// runCPU steps the CPU n times, failing the test immediately on error.
func runCPU(t *testing.T, cpu *go6502.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if _, err := cpu.Step(); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
	}
}

func expectPC(t *testing.T, cpu *go6502.CPU, want go6502.Address) {
	t.Helper()
	if got := cpu.Snapshot().PC; got != want {
		t.Errorf("PC = $%04X, want $%04X", got, want)
	}
}

func expectA(t *testing.T, cpu *go6502.CPU, want byte) {
	t.Helper()
	if got := cpu.Snapshot().A; got != want {
		t.Errorf("A = $%02X, want $%02X", got, want)
	}
}

func expectSP(t *testing.T, cpu *go6502.CPU, want byte) {
	t.Helper()
	if got := cpu.Snapshot().SP; got != want {
		t.Errorf("SP = $%02X, want $%02X", got, want)
	}
}

func expectFlag(t *testing.T, name string, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("flag %s = %v, want %v", name, got, want)
	}
}

func expectMem(t *testing.T, mem *go6502.FlatMemory, addr go6502.Address, want byte) {
	t.Helper()
	got, err := mem.LoadByte(addr)
	if err != nil {
		t.Fatalf("LoadByte($%04X): %v", addr, err)
	}
	if got != want {
		t.Errorf("mem[$%04X] = $%02X, want $%02X", addr, got, want)
	}
}

// TestLoadStore covers LDA immediate followed by STA zero page.
func TestLoadStore(t *testing.T) {
	// LDA #$42; STA $10
	cpu, mem := loadCPU([]byte{0xa9, 0x42, 0x85, 0x10}, 0x0600)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x42)
	expectMem(t, mem, 0x0010, 0x42)
	expectPC(t, cpu, 0x0604)
}

// TestAdcCarry exercises unsigned overflow into the carry flag.
func TestAdcCarry(t *testing.T) {
	// LDA #$ff; ADC #$02  =>  A = $01, Carry = 1
	cpu, _ := loadCPU([]byte{0xa9, 0xff, 0x69, 0x02}, 0x0600)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x01)
	expectFlag(t, "Carry", cpu.Snapshot().Carry, true)
	expectFlag(t, "Zero", cpu.Snapshot().Zero, false)
}

// TestAdcOverflow exercises the signed-overflow formula: two positive
// operands producing a negative result sets V.
func TestAdcOverflow(t *testing.T) {
	// LDA #$7f; ADC #$01  =>  A = $80, Overflow = 1, Sign = 1
	cpu, _ := loadCPU([]byte{0xa9, 0x7f, 0x69, 0x01}, 0x0600)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x80)
	expectFlag(t, "Overflow", cpu.Snapshot().Overflow, true)
	expectFlag(t, "Sign", cpu.Snapshot().Sign, true)
}

// TestCompareDoesNotMutateA verifies CMP only affects flags.
func TestCompareDoesNotMutateA(t *testing.T) {
	// LDA #$10; CMP #$10
	cpu, _ := loadCPU([]byte{0xa9, 0x10, 0xc9, 0x10}, 0x0600)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x10)
	expectFlag(t, "Zero", cpu.Snapshot().Zero, true)
	expectFlag(t, "Carry", cpu.Snapshot().Carry, true)
}

// TestBneLoop runs a small backward-branching decrement loop and checks
// it terminates with X at zero after the expected number of iterations.
func TestBneLoop(t *testing.T) {
	// LDX #$05
	// loop: DEX; BNE loop
	code := []byte{0xa2, 0x05, 0xca, 0xd0, 0xfd}
	cpu, _ := loadCPU(code, 0x0600)
	runCPU(t, cpu, 1) // LDX
	for i := 0; i < 5; i++ {
		runCPU(t, cpu, 2) // DEX, BNE
	}
	if got := cpu.Snapshot().X; got != 0 {
		t.Errorf("X = %d, want 0", got)
	}
	expectPC(t, cpu, 0x0605)
}

// TestJsrRts verifies the call/return address arithmetic: JSR pushes
// PC-1 of the following instruction, RTS pops it and adds 1 back.
func TestJsrRts(t *testing.T) {
	// JSR $0610; ... (at $0610) RTS
	code := make([]byte, 0x20)
	code[0], code[1], code[2] = 0x20, 0x10, 0x06 // JSR $0610
	code[0x10] = 0x60                            // RTS
	cpu, _ := loadCPU(code, 0x0600)
	expectSP(t, cpu, 0xff)
	runCPU(t, cpu, 1) // JSR
	expectSP(t, cpu, 0xfd)
	expectPC(t, cpu, 0x0610)
	runCPU(t, cpu, 1) // RTS
	expectSP(t, cpu, 0xff)
	expectPC(t, cpu, 0x0603)
}

// TestPhpPlpPreservesFlags verifies that PLP restores the Carry and
// Decimal flags saved by PHP after they have been cleared in between.
func TestPhpPlpPreservesFlags(t *testing.T) {
	// SEC; SED; PHP; CLC; CLD; PLP
	code := []byte{0x38, 0xf8, 0x08, 0x18, 0xd8, 0x28}
	cpu, _ := loadCPU(code, 0x0600)
	runCPU(t, cpu, 6)
	expectFlag(t, "Carry", cpu.Snapshot().Carry, true)
	expectFlag(t, "Decimal", cpu.Snapshot().Decimal, true)
}

// TestPhaPla verifies the accumulator survives a push/pull round trip
// and that SP tracks the stack depth correctly.
func TestPhaPla(t *testing.T) {
	// LDA #$99; PHA; LDA #$00; PLA
	code := []byte{0xa9, 0x99, 0x48, 0xa9, 0x00, 0x68}
	cpu, mem := loadCPU(code, 0x0600)
	runCPU(t, cpu, 2)
	expectSP(t, cpu, 0xfe)
	expectMem(t, mem, 0x01ff, 0x99)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x99)
	expectSP(t, cpu, 0xff)
}

// TestIndirectXIndirectY covers (zp,X) and (zp),Y addressing.
func TestIndirectXIndirectY(t *testing.T) {
	mem := go6502.NewFlatMemory()
	// pointer table at $0020: ($0024) -> $0300
	mem.StoreBytes(0x0024, []byte{0x00, 0x03})
	mem.StoreByte(0x0300, 0x55)

	// LDX #$04; LDA ($20,X)
	cpu := go6502.NewCPU(mem)
	mem.StoreBytes(0x0600, []byte{0xa2, 0x04, 0xa1, 0x20})
	cpu.SetPC(0x0600)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x55)

	// pointer at $0030 -> $0300; LDY #$02; LDA ($30),Y reads $0302
	mem.StoreBytes(0x0030, []byte{0x00, 0x03})
	mem.StoreByte(0x0302, 0x66)
	mem.StoreBytes(0x0610, []byte{0xa0, 0x02, 0xb1, 0x30})
	cpu.SetPC(0x0610)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x66)
}

// TestIndirectJmpPageWrapBug reproduces the classic NMOS 6502 bug: an
// indirect JMP whose pointer's low byte is $FF reads its high byte from
// the start of the same page instead of the following page.
func TestIndirectJmpPageWrapBug(t *testing.T) {
	mem := go6502.NewFlatMemory()
	mem.StoreByte(0x02ff, 0x00) // low byte of target
	mem.StoreByte(0x0200, 0x80) // high byte the bug reads instead of $0300
	mem.StoreByte(0x0300, 0xff) // correct high byte, must NOT be used

	// JMP ($02FF)
	mem.StoreBytes(0x0600, []byte{0x6c, 0xff, 0x02})
	cpu := go6502.NewCPU(mem)
	cpu.SetPC(0x0600)
	runCPU(t, cpu, 1)
	expectPC(t, cpu, 0x8000)
}

// TestZeroPageIndexedWrap verifies zero-page,X addressing wraps within
// the zero page rather than carrying into page 1.
func TestZeroPageIndexedWrap(t *testing.T) {
	mem := go6502.NewFlatMemory()
	mem.StoreByte(0x0001, 0x77) // $80 + $81 wraps to $01

	// LDX #$81; LDA $80,X
	mem.StoreBytes(0x0600, []byte{0xa2, 0x81, 0xb5, 0x80})
	cpu := go6502.NewCPU(mem)
	cpu.SetPC(0x0600)
	runCPU(t, cpu, 2)
	expectA(t, cpu, 0x77)
}

// TestResetHonorsVector verifies Reset loads PC from $FFFC/$FFFD rather
// than zeroing it, and sets SP/I to their documented reset-time values.
func TestResetHonorsVector(t *testing.T) {
	mem := go6502.NewFlatMemory()
	mem.StoreBytes(0xfffc, []byte{0x00, 0x80})
	cpu := go6502.NewCPU(mem)
	if err := cpu.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	expectPC(t, cpu, 0x8000)
	expectSP(t, cpu, 0xfd)
	expectFlag(t, "InterruptDisable", cpu.Snapshot().InterruptDisable, true)
}

// TestBrkReturnsHalt verifies BRK is surfaced to the caller as
// ErrHaltRequested rather than silently vectoring off into program
// memory the caller doesn't control.
func TestBrkReturnsHalt(t *testing.T) {
	mem := go6502.NewFlatMemory()
	mem.StoreBytes(0xfffe, []byte{0x34, 0x12})
	cpu := go6502.NewCPU(mem)
	mem.StoreByte(0x0600, 0x00) // BRK
	cpu.SetPC(0x0600)
	_, err := cpu.Step()
	if err != go6502.ErrHaltRequested {
		t.Fatalf("Step: got %v, want ErrHaltRequested", err)
	}
	expectPC(t, cpu, 0x1234)
}

// TestIllegalOpcodeStrictMode verifies an unassigned opcode faults only
// when StrictMode is enabled.
func TestIllegalOpcodeStrictMode(t *testing.T) {
	mem := go6502.NewFlatMemory()
	mem.StoreByte(0x0600, 0x02) // unassigned on the NMOS 6502
	cpu := go6502.NewCPU(mem)
	cpu.SetPC(0x0600)

	if _, err := cpu.Step(); err != nil {
		t.Fatalf("non-strict Step: unexpected error: %v", err)
	}

	cpu.SetPC(0x0600)
	cpu.StrictMode = true
	_, err := cpu.Step()
	if err == nil {
		t.Fatal("strict Step: expected IllegalOpcodeError, got nil")
	}
	if _, ok := err.(*go6502.IllegalOpcodeError); !ok {
		t.Fatalf("strict Step: got %T, want *go6502.IllegalOpcodeError", err)
	}
}

// TestPageCrossPenalty verifies an ABX read that crosses a page boundary
// costs one extra cycle over the base LDA absolute,X timing.
func TestPageCrossPenalty(t *testing.T) {
	mem := go6502.NewFlatMemory()
	mem.StoreByte(0x0201, 0x01) // $01ff + X($02) = $0201: crosses page

	// LDX #$02; LDA $01ff,X
	mem.StoreBytes(0x0600, []byte{0xa2, 0x02, 0xbd, 0xff, 0x01})
	cpu := go6502.NewCPU(mem)
	cpu.SetPC(0x0600)
	runCPU(t, cpu, 1)
	cycles, err := cpu.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5 (4 base + 1 page-cross)", cycles)
	}
}

// TestOpcodeSweepNoPanic walks every possible opcode byte in non-strict
// mode and verifies Step never panics.
func TestOpcodeSweepNoPanic(t *testing.T) {
	for op := 0; op < 256; op++ {
		mem := go6502.NewFlatMemory()
		// Fill the buffer with NOPs so a multi-byte instruction under
		// test always has valid operand bytes to consume.
		buf := make([]byte, 8)
		for i := range buf {
			buf[i] = 0xea
		}
		buf[0] = byte(op)
		mem.StoreBytes(0x0600, buf)

		cpu := go6502.NewCPU(mem)
		cpu.SetPC(0x0600)

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("opcode $%02X panicked: %v", op, r)
				}
			}()
			cpu.Step()
		}()
	}
}
