package go6502_test

import (
	"testing"

	go6502 "github.com/arlecossec/zephyrdx82-cpu"
)

func TestLookupKnownOpcode(t *testing.T) {
	set := go6502.GetInstructionSet()
	inst := set.Lookup(0xa9) // LDA #imm
	if inst.Name != "LDA" {
		t.Errorf("Lookup($A9).Name = %q, want LDA", inst.Name)
	}
	if inst.Mode != go6502.IMM {
		t.Errorf("Lookup($A9).Mode = %v, want IMM", inst.Mode)
	}
	if inst.Length != 2 || inst.Cycles != 2 {
		t.Errorf("Lookup($A9) length/cycles = %d/%d, want 2/2", inst.Length, inst.Cycles)
	}
}

// TestLookupIllegalOpcodeIsZeroValue mirrors original_source's
// instruction_set[opcode] == NULL check: unassigned opcodes come back
// as a zero-value Instruction with a nil handler and a zero cycle count.
func TestLookupIllegalOpcodeIsZeroValue(t *testing.T) {
	set := go6502.GetInstructionSet()
	inst := set.Lookup(0x02)
	if inst.Cycles != 0 {
		t.Errorf("Lookup($02).Cycles = %d, want 0", inst.Cycles)
	}
}

func TestGetInstructionsReturnsAllVariants(t *testing.T) {
	set := go6502.GetInstructionSet()
	variants := set.GetInstructions("LDA")
	if len(variants) != 8 {
		t.Errorf("len(GetInstructions(\"LDA\")) = %d, want 8", len(variants))
	}
}

// TestNoDuplicateOpcodes verifies no opcode byte is shared between the
// LDA, STA and ADC variants.
func TestNoDuplicateOpcodes(t *testing.T) {
	set := go6502.GetInstructionSet()
	seen := make(map[byte]string)
	for name, variants := range map[string][]*go6502.Instruction{
		"LDA": set.GetInstructions("LDA"),
		"STA": set.GetInstructions("STA"),
		"ADC": set.GetInstructions("ADC"),
	} {
		for _, inst := range variants {
			if other, ok := seen[inst.Opcode]; ok {
				t.Errorf("opcode $%02X assigned to both %s and %s", inst.Opcode, other, name)
			}
			seen[inst.Opcode] = name
		}
	}
}
