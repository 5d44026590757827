// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package go6502

import (
	"errors"
	"fmt"
)

// ErrHaltRequested is returned by Step whenever the CPU executes a BRK
// instruction, after BRK's interrupt entry has completed. No other
// condition produces it. It is a sentinel; callers should compare with
// errors.Is.
var ErrHaltRequested = errors.New("go6502: halt requested")

// IllegalOpcodeError is returned by Step when StrictMode is enabled and
// the fetched opcode has no entry in the instruction set (its Cycles
// field is 0). In non-strict mode, illegal opcodes are treated as a
// single-byte NOP instead of producing this error.
type IllegalOpcodeError struct {
	Opcode byte
	PC     Address
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("go6502: illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}

// BusFaultError wraps an error returned by the Memory bus during
// instruction fetch, operand decode, or execution, recording the address
// that was being accessed when the fault occurred.
type BusFaultError struct {
	Addr Address
	Err  error
}

func (e *BusFaultError) Error() string {
	return fmt.Sprintf("go6502: bus fault at $%04X: %v", e.Addr, e.Err)
}

func (e *BusFaultError) Unwrap() error {
	return e.Err
}

func busFault(addr Address, err error) error {
	if err == nil {
		return nil
	}
	return &BusFaultError{Addr: addr, Err: err}
}
