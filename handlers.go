// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package go6502

// This file implements every documented NMOS 6502 opcode handler. Each
// handler has the signature required by instfunc (see instructions.go)
// and is wired into the dispatch table built by that file's init
// function. Handlers return an error when the memory bus faults, and brk
// returns ErrHaltRequested; every other outcome, however surprising
// (branches wrapping across pages), is ordinary ISA behavior.

func (c *CPU) adc(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}

	carry := boolToByte(c.Reg.Carry)

	if c.Reg.Decimal {
		lo := int(c.Reg.A&0x0f) + int(v&0x0f) + int(carry)
		hi := int(c.Reg.A>>4) + int(v>>4)
		if lo > 9 {
			lo += 6
			hi++
		}
		c.Reg.Overflow = ((c.Reg.A^v)&0x80) == 0 && ((c.Reg.A^byte(hi<<4))&0x80) != 0
		if hi > 9 {
			hi += 6
		}
		c.Reg.Carry = hi > 15
		result := byte(lo&0x0f) | byte(hi<<4)
		c.Reg.A = result
		c.updateNZ(result)
		return nil
	}

	sum := int(c.Reg.A) + int(v) + int(carry)
	result := byte(sum)
	c.Reg.Overflow = ((c.Reg.A^v)&0x80) == 0 && ((c.Reg.A^result)&0x80) != 0
	c.Reg.Carry = sum > 0xff
	c.Reg.A = result
	c.updateNZ(result)
	return nil
}

func (c *CPU) sbc(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}

	borrow := byte(1)
	if c.Reg.Carry {
		borrow = 0
	}

	diff := int(c.Reg.A) - int(v) - int(borrow)
	result := byte(diff)
	c.Reg.Overflow = ((c.Reg.A^v)&0x80) != 0 && ((c.Reg.A^result)&0x80) != 0
	c.Reg.Carry = diff >= 0

	if c.Reg.Decimal {
		lo := int(c.Reg.A&0x0f) - int(v&0x0f) - int(borrow)
		hi := int(c.Reg.A>>4) - int(v>>4)
		if lo < 0 {
			lo -= 6
			hi--
		}
		if hi < 0 {
			hi -= 6
		}
		result = byte(lo&0x0f) | byte(hi<<4)
		c.Reg.A = result
		c.updateNZ(byte(diff))
		return nil
	}

	c.Reg.A = result
	c.updateNZ(result)
	return nil
}

func (c *CPU) and(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.A &= v
	c.updateNZ(c.Reg.A)
	return nil
}

func (c *CPU) ora(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.A |= v
	c.updateNZ(c.Reg.A)
	return nil
}

func (c *CPU) eor(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.A ^= v
	c.updateNZ(c.Reg.A)
	return nil
}

func (c *CPU) asl(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.Carry = (v & 0x80) != 0
	result := v << 1
	c.updateNZ(result)
	return c.store(inst, operand, result)
}

func (c *CPU) lsr(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.Carry = (v & 0x01) != 0
	result := v >> 1
	c.updateNZ(result)
	return c.store(inst, operand, result)
}

func (c *CPU) rol(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	carryIn := boolToByte(c.Reg.Carry)
	c.Reg.Carry = (v & 0x80) != 0
	result := (v << 1) | carryIn
	c.updateNZ(result)
	return c.store(inst, operand, result)
}

func (c *CPU) ror(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	carryIn := boolToByte(c.Reg.Carry)
	c.Reg.Carry = (v & 0x01) != 0
	result := (v >> 1) | (carryIn << 7)
	c.updateNZ(result)
	return c.store(inst, operand, result)
}

func (c *CPU) bit(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.Zero = (v & c.Reg.A) == 0
	c.Reg.Overflow = (v & 0x40) != 0
	c.Reg.Sign = (v & 0x80) != 0
	return nil
}

func (c *CPU) cmp(inst *Instruction, operand []byte) error {
	return c.compare(inst, operand, c.Reg.A)
}

func (c *CPU) cpx(inst *Instruction, operand []byte) error {
	return c.compare(inst, operand, c.Reg.X)
}

func (c *CPU) cpy(inst *Instruction, operand []byte) error {
	return c.compare(inst, operand, c.Reg.Y)
}

// compare is the shared implementation of CMP/CPX/CPY: an unsigned
// subtraction that updates flags but never writes its result back.
func (c *CPU) compare(inst *Instruction, operand []byte, reg byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	result := reg - v
	c.Reg.Carry = reg >= v
	c.updateNZ(result)
	return nil
}

func (c *CPU) dec(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	result := v - 1
	c.updateNZ(result)
	return c.store(inst, operand, result)
}

func (c *CPU) inc(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	result := v + 1
	c.updateNZ(result)
	return c.store(inst, operand, result)
}

func (c *CPU) dex(_ *Instruction, _ []byte) error {
	c.Reg.X--
	c.updateNZ(c.Reg.X)
	return nil
}

func (c *CPU) dey(_ *Instruction, _ []byte) error {
	c.Reg.Y--
	c.updateNZ(c.Reg.Y)
	return nil
}

func (c *CPU) inx(_ *Instruction, _ []byte) error {
	c.Reg.X++
	c.updateNZ(c.Reg.X)
	return nil
}

func (c *CPU) iny(_ *Instruction, _ []byte) error {
	c.Reg.Y++
	c.updateNZ(c.Reg.Y)
	return nil
}

func (c *CPU) lda(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.A = v
	c.updateNZ(v)
	return nil
}

func (c *CPU) ldx(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.X = v
	c.updateNZ(v)
	return nil
}

func (c *CPU) ldy(inst *Instruction, operand []byte) error {
	v, err := c.load(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.Y = v
	c.updateNZ(v)
	return nil
}

func (c *CPU) sta(inst *Instruction, operand []byte) error {
	return c.store(inst, operand, c.Reg.A)
}

func (c *CPU) stx(inst *Instruction, operand []byte) error {
	return c.store(inst, operand, c.Reg.X)
}

func (c *CPU) sty(inst *Instruction, operand []byte) error {
	return c.store(inst, operand, c.Reg.Y)
}

func (c *CPU) tax(_ *Instruction, _ []byte) error {
	c.Reg.X = c.Reg.A
	c.updateNZ(c.Reg.X)
	return nil
}

func (c *CPU) tay(_ *Instruction, _ []byte) error {
	c.Reg.Y = c.Reg.A
	c.updateNZ(c.Reg.Y)
	return nil
}

func (c *CPU) txa(_ *Instruction, _ []byte) error {
	c.Reg.A = c.Reg.X
	c.updateNZ(c.Reg.A)
	return nil
}

func (c *CPU) tya(_ *Instruction, _ []byte) error {
	c.Reg.A = c.Reg.Y
	c.updateNZ(c.Reg.A)
	return nil
}

func (c *CPU) tsx(_ *Instruction, _ []byte) error {
	c.Reg.X = c.Reg.SP
	c.updateNZ(c.Reg.X)
	return nil
}

func (c *CPU) txs(_ *Instruction, _ []byte) error {
	c.Reg.SP = c.Reg.X
	return nil
}

func (c *CPU) pha(_ *Instruction, _ []byte) error {
	return c.push(c.Reg.A)
}

func (c *CPU) pla(_ *Instruction, _ []byte) error {
	v, err := c.pop()
	if err != nil {
		return err
	}
	c.Reg.A = v
	c.updateNZ(v)
	return nil
}

func (c *CPU) php(_ *Instruction, _ []byte) error {
	return c.push(c.Reg.SavePS(true))
}

func (c *CPU) plp(_ *Instruction, _ []byte) error {
	v, err := c.pop()
	if err != nil {
		return err
	}
	c.Reg.RestorePS(v)
	return nil
}

func (c *CPU) jmp(inst *Instruction, operand []byte) error {
	addr, err := c.loadAddress(inst, operand)
	if err != nil {
		return err
	}
	c.Reg.PC = addr
	return nil
}

func (c *CPU) jsr(_ *Instruction, operand []byte) error {
	ret := c.Reg.PC - 1
	if err := c.pushAddress(ret); err != nil {
		return err
	}
	c.Reg.PC = operandToAddress(operand)
	return nil
}

func (c *CPU) rts(_ *Instruction, _ []byte) error {
	addr, err := c.popAddress()
	if err != nil {
		return err
	}
	c.Reg.PC = addr + 1
	return nil
}

func (c *CPU) brk(_ *Instruction, _ []byte) error {
	c.Reg.PC++ // skip the padding byte following the BRK opcode
	if err := c.handleInterrupt(vectorIRQ, true); err != nil {
		return err
	}
	return ErrHaltRequested
}

func (c *CPU) rti(_ *Instruction, _ []byte) error {
	ps, err := c.pop()
	if err != nil {
		return err
	}
	c.Reg.RestorePS(ps)
	addr, err := c.popAddress()
	if err != nil {
		return err
	}
	c.Reg.PC = addr
	return nil
}

func (c *CPU) nop(_ *Instruction, _ []byte) error {
	return nil
}

func (c *CPU) bcc(inst *Instruction, operand []byte) error {
	if !c.Reg.Carry {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) bcs(inst *Instruction, operand []byte) error {
	if c.Reg.Carry {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) beq(inst *Instruction, operand []byte) error {
	if c.Reg.Zero {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) bne(inst *Instruction, operand []byte) error {
	if !c.Reg.Zero {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) bmi(inst *Instruction, operand []byte) error {
	if c.Reg.Sign {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) bpl(inst *Instruction, operand []byte) error {
	if !c.Reg.Sign {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) bvc(inst *Instruction, operand []byte) error {
	if !c.Reg.Overflow {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) bvs(inst *Instruction, operand []byte) error {
	if c.Reg.Overflow {
		c.branch(inst, operand)
	}
	return nil
}

func (c *CPU) clc(_ *Instruction, _ []byte) error {
	c.Reg.Carry = false
	return nil
}

func (c *CPU) sec(_ *Instruction, _ []byte) error {
	c.Reg.Carry = true
	return nil
}

func (c *CPU) cld(_ *Instruction, _ []byte) error {
	c.Reg.Decimal = false
	return nil
}

func (c *CPU) sed(_ *Instruction, _ []byte) error {
	c.Reg.Decimal = true
	return nil
}

func (c *CPU) cli(_ *Instruction, _ []byte) error {
	c.Reg.InterruptDisable = false
	return nil
}

func (c *CPU) sei(_ *Instruction, _ []byte) error {
	c.Reg.InterruptDisable = true
	return nil
}

func (c *CPU) clv(_ *Instruction, _ []byte) error {
	c.Reg.Overflow = false
	return nil
}
