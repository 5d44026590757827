// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package go6502

// An opsym is an internal symbol used to associate opcode data with its
// implementation.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA
)

// instfunc is the signature every opcode handler implements. It returns an
// error when the memory bus faults, and ErrHaltRequested for BRK; ordinary
// ISA semantics (overflow, wraparound, illegal-looking-but-legal
// combinations) never produce one.
type instfunc func(c *CPU, inst *Instruction, operand []byte) error

// opcodeImpl associates an opsym with its name and implementing function.
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symADC, "ADC", (*CPU).adc},
	{symAND, "AND", (*CPU).and},
	{symASL, "ASL", (*CPU).asl},
	{symBCC, "BCC", (*CPU).bcc},
	{symBCS, "BCS", (*CPU).bcs},
	{symBEQ, "BEQ", (*CPU).beq},
	{symBIT, "BIT", (*CPU).bit},
	{symBMI, "BMI", (*CPU).bmi},
	{symBNE, "BNE", (*CPU).bne},
	{symBPL, "BPL", (*CPU).bpl},
	{symBRK, "BRK", (*CPU).brk},
	{symBVC, "BVC", (*CPU).bvc},
	{symBVS, "BVS", (*CPU).bvs},
	{symCLC, "CLC", (*CPU).clc},
	{symCLD, "CLD", (*CPU).cld},
	{symCLI, "CLI", (*CPU).cli},
	{symCLV, "CLV", (*CPU).clv},
	{symCMP, "CMP", (*CPU).cmp},
	{symCPX, "CPX", (*CPU).cpx},
	{symCPY, "CPY", (*CPU).cpy},
	{symDEC, "DEC", (*CPU).dec},
	{symDEX, "DEX", (*CPU).dex},
	{symDEY, "DEY", (*CPU).dey},
	{symEOR, "EOR", (*CPU).eor},
	{symINC, "INC", (*CPU).inc},
	{symINX, "INX", (*CPU).inx},
	{symINY, "INY", (*CPU).iny},
	{symJMP, "JMP", (*CPU).jmp},
	{symJSR, "JSR", (*CPU).jsr},
	{symLDA, "LDA", (*CPU).lda},
	{symLDX, "LDX", (*CPU).ldx},
	{symLDY, "LDY", (*CPU).ldy},
	{symLSR, "LSR", (*CPU).lsr},
	{symNOP, "NOP", (*CPU).nop},
	{symORA, "ORA", (*CPU).ora},
	{symPHA, "PHA", (*CPU).pha},
	{symPHP, "PHP", (*CPU).php},
	{symPLA, "PLA", (*CPU).pla},
	{symPLP, "PLP", (*CPU).plp},
	{symROL, "ROL", (*CPU).rol},
	{symROR, "ROR", (*CPU).ror},
	{symRTI, "RTI", (*CPU).rti},
	{symRTS, "RTS", (*CPU).rts},
	{symSBC, "SBC", (*CPU).sbc},
	{symSEC, "SEC", (*CPU).sec},
	{symSED, "SED", (*CPU).sed},
	{symSEI, "SEI", (*CPU).sei},
	{symSTA, "STA", (*CPU).sta},
	{symSTX, "STX", (*CPU).stx},
	{symSTY, "STY", (*CPU).sty},
	{symTAX, "TAX", (*CPU).tax},
	{symTAY, "TAY", (*CPU).tay},
	{symTSX, "TSX", (*CPU).tsx},
	{symTXA, "TXA", (*CPU).txa},
	{symTXS, "TXS", (*CPU).txs},
	{symTYA, "TYA", (*CPU).tya},
}

// Mode describes a memory addressing mode.
type Mode byte

// All addressing modes implemented by the core.
const (
	IMM Mode = iota // Immediate
	IMP             // Implied
	REL             // Relative
	ZPG             // Zero page
	ZPX             // Zero page,X
	ZPY             // Zero page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect) — JMP only
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator
)

// opcodeData describes one (opcode, mode) pairing.
type opcodeData struct {
	sym      opsym
	mode     Mode
	opcode   byte
	length   byte
	cycles   byte
	bpcycles byte
}

// data lists every documented (opcode, mode) pair on the NMOS 6502.
// Opcode values absent from this table are illegal/undocumented and are
// left as zero-value Instructions (see the init function below).
var data = []opcodeData{
	{symBRK, IMP, 0x00, 1, 7, 0},
	{symORA, IDX, 0x01, 2, 6, 0},
	{symORA, ZPG, 0x05, 2, 3, 0},
	{symASL, ZPG, 0x06, 2, 5, 0},
	{symPHP, IMP, 0x08, 1, 3, 0},
	{symORA, IMM, 0x09, 2, 2, 0},
	{symASL, ACC, 0x0a, 1, 2, 0},
	{symORA, ABS, 0x0d, 3, 4, 0},
	{symASL, ABS, 0x0e, 3, 6, 0},

	{symBPL, REL, 0x10, 2, 2, 1},
	{symORA, IDY, 0x11, 2, 5, 1},
	{symORA, ZPX, 0x15, 2, 4, 0},
	{symASL, ZPX, 0x16, 2, 6, 0},
	{symCLC, IMP, 0x18, 1, 2, 0},
	{symORA, ABY, 0x19, 3, 4, 1},
	{symORA, ABX, 0x1d, 3, 4, 1},
	{symASL, ABX, 0x1e, 3, 7, 0},

	{symJSR, ABS, 0x20, 3, 6, 0},
	{symAND, IDX, 0x21, 2, 6, 0},
	{symBIT, ZPG, 0x24, 2, 3, 0},
	{symAND, ZPG, 0x25, 2, 3, 0},
	{symROL, ZPG, 0x26, 2, 5, 0},
	{symPLP, IMP, 0x28, 1, 4, 0},
	{symAND, IMM, 0x29, 2, 2, 0},
	{symROL, ACC, 0x2a, 1, 2, 0},
	{symBIT, ABS, 0x2c, 3, 4, 0},
	{symAND, ABS, 0x2d, 3, 4, 0},
	{symROL, ABS, 0x2e, 3, 6, 0},

	{symBMI, REL, 0x30, 2, 2, 1},
	{symAND, IDY, 0x31, 2, 5, 1},
	{symAND, ZPX, 0x35, 2, 4, 0},
	{symROL, ZPX, 0x36, 2, 6, 0},
	{symSEC, IMP, 0x38, 1, 2, 0},
	{symAND, ABY, 0x39, 3, 4, 1},
	{symAND, ABX, 0x3d, 3, 4, 1},
	{symROL, ABX, 0x3e, 3, 7, 0},

	{symRTI, IMP, 0x40, 1, 6, 0},
	{symEOR, IDX, 0x41, 2, 6, 0},
	{symEOR, ZPG, 0x45, 2, 3, 0},
	{symLSR, ZPG, 0x46, 2, 5, 0},
	{symPHA, IMP, 0x48, 1, 3, 0},
	{symEOR, IMM, 0x49, 2, 2, 0},
	{symLSR, ACC, 0x4a, 1, 2, 0},
	{symJMP, ABS, 0x4c, 3, 3, 0},
	{symEOR, ABS, 0x4d, 3, 4, 0},
	{symLSR, ABS, 0x4e, 3, 6, 0},

	{symBVC, REL, 0x50, 2, 2, 1},
	{symEOR, IDY, 0x51, 2, 5, 1},
	{symEOR, ZPX, 0x55, 2, 4, 0},
	{symLSR, ZPX, 0x56, 2, 6, 0},
	{symCLI, IMP, 0x58, 1, 2, 0},
	{symEOR, ABY, 0x59, 3, 4, 1},
	{symEOR, ABX, 0x5d, 3, 4, 1},
	{symLSR, ABX, 0x5e, 3, 7, 0},

	{symRTS, IMP, 0x60, 1, 6, 0},
	{symADC, IDX, 0x61, 2, 6, 0},
	{symADC, ZPG, 0x65, 2, 3, 0},
	{symROR, ZPG, 0x66, 2, 5, 0},
	{symPLA, IMP, 0x68, 1, 4, 0},
	{symADC, IMM, 0x69, 2, 2, 0},
	{symROR, ACC, 0x6a, 1, 2, 0},
	{symJMP, IND, 0x6c, 3, 5, 0},
	{symADC, ABS, 0x6d, 3, 4, 0},
	{symROR, ABS, 0x6e, 3, 6, 0},

	{symBVS, REL, 0x70, 2, 2, 1},
	{symADC, IDY, 0x71, 2, 5, 1},
	{symADC, ZPX, 0x75, 2, 4, 0},
	{symROR, ZPX, 0x76, 2, 6, 0},
	{symSEI, IMP, 0x78, 1, 2, 0},
	{symADC, ABY, 0x79, 3, 4, 1},
	{symADC, ABX, 0x7d, 3, 4, 1},
	{symROR, ABX, 0x7e, 3, 7, 0},

	{symSTA, IDX, 0x81, 2, 6, 0},
	{symSTY, ZPG, 0x84, 2, 3, 0},
	{symSTA, ZPG, 0x85, 2, 3, 0},
	{symSTX, ZPG, 0x86, 2, 3, 0},
	{symDEY, IMP, 0x88, 1, 2, 0},
	{symTXA, IMP, 0x8a, 1, 2, 0},
	{symSTY, ABS, 0x8c, 3, 4, 0},
	{symSTA, ABS, 0x8d, 3, 4, 0},
	{symSTX, ABS, 0x8e, 3, 4, 0},

	{symBCC, REL, 0x90, 2, 2, 1},
	{symSTA, IDY, 0x91, 2, 6, 0},
	{symSTY, ZPX, 0x94, 2, 4, 0},
	{symSTA, ZPX, 0x95, 2, 4, 0},
	{symSTX, ZPY, 0x96, 2, 4, 0},
	{symTYA, IMP, 0x98, 1, 2, 0},
	{symSTA, ABY, 0x99, 3, 5, 0},
	{symTXS, IMP, 0x9a, 1, 2, 0},
	{symSTA, ABX, 0x9d, 3, 5, 0},

	{symLDY, IMM, 0xa0, 2, 2, 0},
	{symLDA, IDX, 0xa1, 2, 6, 0},
	{symLDX, IMM, 0xa2, 2, 2, 0},
	{symLDY, ZPG, 0xa4, 2, 3, 0},
	{symLDA, ZPG, 0xa5, 2, 3, 0},
	{symLDX, ZPG, 0xa6, 2, 3, 0},
	{symTAY, IMP, 0xa8, 1, 2, 0},
	{symLDA, IMM, 0xa9, 2, 2, 0},
	{symTAX, IMP, 0xaa, 1, 2, 0},
	{symLDY, ABS, 0xac, 3, 4, 0},
	{symLDA, ABS, 0xad, 3, 4, 0},
	{symLDX, ABS, 0xae, 3, 4, 0},

	{symBCS, REL, 0xb0, 2, 2, 1},
	{symLDA, IDY, 0xb1, 2, 5, 1},
	{symLDY, ZPX, 0xb4, 2, 4, 0},
	{symLDA, ZPX, 0xb5, 2, 4, 0},
	{symLDX, ZPY, 0xb6, 2, 4, 0},
	{symCLV, IMP, 0xb8, 1, 2, 0},
	{symLDA, ABY, 0xb9, 3, 4, 1},
	{symTSX, IMP, 0xba, 1, 2, 0},
	{symLDY, ABX, 0xbc, 3, 4, 1},
	{symLDA, ABX, 0xbd, 3, 4, 1},
	{symLDX, ABY, 0xbe, 3, 4, 1},

	{symCPY, IMM, 0xc0, 2, 2, 0},
	{symCMP, IDX, 0xc1, 2, 6, 0},
	{symCPY, ZPG, 0xc4, 2, 3, 0},
	{symCMP, ZPG, 0xc5, 2, 3, 0},
	{symDEC, ZPG, 0xc6, 2, 5, 0},
	{symINY, IMP, 0xc8, 1, 2, 0},
	{symCMP, IMM, 0xc9, 2, 2, 0},
	{symDEX, IMP, 0xca, 1, 2, 0},
	{symCPY, ABS, 0xcc, 3, 4, 0},
	{symCMP, ABS, 0xcd, 3, 4, 0},
	{symDEC, ABS, 0xce, 3, 6, 0},

	{symBNE, REL, 0xd0, 2, 2, 1},
	{symCMP, IDY, 0xd1, 2, 5, 1},
	{symCMP, ZPX, 0xd5, 2, 4, 0},
	{symDEC, ZPX, 0xd6, 2, 6, 0},
	{symCLD, IMP, 0xd8, 1, 2, 0},
	{symCMP, ABY, 0xd9, 3, 4, 1},
	{symCMP, ABX, 0xdd, 3, 4, 1},
	{symDEC, ABX, 0xde, 3, 7, 0},

	{symCPX, IMM, 0xe0, 2, 2, 0},
	{symSBC, IDX, 0xe1, 2, 6, 0},
	{symCPX, ZPG, 0xe4, 2, 3, 0},
	{symSBC, ZPG, 0xe5, 2, 3, 0},
	{symINC, ZPG, 0xe6, 2, 5, 0},
	{symINX, IMP, 0xe8, 1, 2, 0},
	{symSBC, IMM, 0xe9, 2, 2, 0},
	{symNOP, IMP, 0xea, 1, 2, 0},
	{symCPX, ABS, 0xec, 3, 4, 0},
	{symSBC, ABS, 0xed, 3, 4, 0},
	{symINC, ABS, 0xee, 3, 6, 0},

	{symBEQ, REL, 0xf0, 2, 2, 1},
	{symSBC, IDY, 0xf1, 2, 5, 1},
	{symSBC, ZPX, 0xf5, 2, 4, 0},
	{symINC, ZPX, 0xf6, 2, 6, 0},
	{symSED, IMP, 0xf8, 1, 2, 0},
	{symSBC, ABY, 0xf9, 3, 4, 1},
	{symSBC, ABX, 0xfd, 3, 4, 1},
	{symINC, ABX, 0xfe, 3, 7, 0},
}

// Instruction describes a single 6502 instruction: its mnemonic, opcode,
// addressing mode, timing, and implementing function.
type Instruction struct {
	Name     string   // mnemonic, e.g. "LDA"
	Mode     Mode     // addressing mode
	Opcode   byte     // opcode byte
	Length   byte     // total instruction length in bytes, including the opcode
	Cycles   byte     // base cycle count
	BPCycles byte     // extra cycles if a page boundary is crossed
	fn       instfunc // implementing function; nil for illegal opcodes
}

// InstructionSet is the fixed, 256-entry opcode dispatch table built once
// at process start. It is safe for concurrent read-only use across
// goroutines, since nothing ever mutates it after init.
type InstructionSet struct {
	table    [256]Instruction
	variants map[string][]*Instruction
}

// Lookup returns the Instruction bound to the given opcode byte. For
// opcodes outside the documented 6502 instruction set, the returned
// Instruction has a nil handler and a zero Cycles count; the caller (see
// CPU.Step) is responsible for treating that as an illegal opcode.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.table[opcode]
}

// GetInstructions returns every (opcode, mode) variant of the named
// mnemonic, e.g. "LDA" returns all eight LDA addressing-mode variants.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[name]
}

var instructionSet *InstructionSet

// GetInstructionSet returns the process-wide, read-only NMOS 6502
// instruction set.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}

func init() {
	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	s := &InstructionSet{
		variants: make(map[string][]*Instruction),
	}

	for _, d := range data {
		fn := symToImpl[d.sym]
		inst := &s.table[d.opcode]
		inst.Name = fn.name
		inst.Mode = d.mode
		inst.Opcode = d.opcode
		inst.Length = d.length
		inst.Cycles = d.cycles
		inst.BPCycles = d.bpcycles
		inst.fn = fn.fn

		s.variants[inst.Name] = append(s.variants[inst.Name], inst)
	}

	instructionSet = s
}
