package classfile

import "encoding/binary"

// fixedLength gives the instruction length (including the opcode byte)
// for every opcode whose length does not depend on its position in the
// code array. tableswitch, lookupswitch, and wide are handled
// separately since their length varies with alignment or the modified
// opcode. Unlisted opcodes are reserved/unused in the current format
// and are treated as length 1 so the walker still advances.
var fixedLength = [256]int{
	0x00: 1, 0x01: 1, 0x02: 1, 0x03: 1, 0x04: 1, 0x05: 1, 0x06: 1, 0x07: 1,
	0x08: 1, 0x09: 1, 0x0a: 1, 0x0b: 1, 0x0c: 1, 0x0d: 1, 0x0e: 1, 0x0f: 1,
	0x10: 2, 0x11: 3, 0x12: 2, 0x13: 3, 0x14: 3, 0x15: 2, 0x16: 2, 0x17: 2,
	0x18: 2, 0x19: 2, 0x1a: 1, 0x1b: 1, 0x1c: 1, 0x1d: 1, 0x1e: 1, 0x1f: 1,
	0x20: 1, 0x21: 1, 0x22: 1, 0x23: 1, 0x24: 1, 0x25: 1, 0x26: 1, 0x27: 1,
	0x28: 1, 0x29: 1, 0x2a: 1, 0x2b: 1, 0x2c: 1, 0x2d: 1, 0x2e: 1, 0x2f: 1,
	0x30: 1, 0x31: 1, 0x32: 1, 0x33: 1, 0x34: 1, 0x35: 1, 0x36: 2, 0x37: 2,
	0x38: 2, 0x39: 2, 0x3a: 2, 0x3b: 1, 0x3c: 1, 0x3d: 1, 0x3e: 1, 0x3f: 1,
	0x40: 1, 0x41: 1, 0x42: 1, 0x43: 1, 0x44: 1, 0x45: 1, 0x46: 1, 0x47: 1,
	0x48: 1, 0x49: 1, 0x4a: 1, 0x4b: 1, 0x4c: 1, 0x4d: 1, 0x4e: 1, 0x4f: 1,
	0x50: 1, 0x51: 1, 0x52: 1, 0x53: 1, 0x54: 1, 0x55: 1, 0x56: 1, 0x57: 1,
	0x58: 1, 0x59: 1, 0x5a: 1, 0x5b: 1, 0x5c: 1, 0x5d: 1, 0x5e: 1, 0x5f: 1,
	0x60: 1, 0x61: 1, 0x62: 1, 0x63: 1, 0x64: 1, 0x65: 1, 0x66: 1, 0x67: 1,
	0x68: 1, 0x69: 1, 0x6a: 1, 0x6b: 1, 0x6c: 1, 0x6d: 1, 0x6e: 1, 0x6f: 1,
	0x70: 1, 0x71: 1, 0x72: 1, 0x73: 1, 0x74: 1, 0x75: 1, 0x76: 1, 0x77: 1,
	0x78: 1, 0x79: 1, 0x7a: 1, 0x7b: 1, 0x7c: 1, 0x7d: 1, 0x7e: 1, 0x7f: 1,
	0x80: 1, 0x81: 1, 0x82: 1, 0x83: 1, 0x84: 3, 0x85: 1, 0x86: 1, 0x87: 1,
	0x88: 1, 0x89: 1, 0x8a: 1, 0x8b: 1, 0x8c: 1, 0x8d: 1, 0x8e: 1, 0x8f: 1,
	0x90: 1, 0x91: 1, 0x92: 1, 0x93: 1, 0x94: 1, 0x95: 1, 0x96: 1, 0x97: 1,
	0x98: 1, 0x99: 3, 0x9a: 3, 0x9b: 3, 0x9c: 3, 0x9d: 3, 0x9e: 3, 0x9f: 3,
	0xa0: 3, 0xa1: 3, 0xa2: 3, 0xa3: 3, 0xa4: 3, 0xa5: 3, 0xa6: 3, 0xa7: 3,
	0xa8: 3, 0xa9: 2,
	// 0xaa tableswitch, 0xab lookupswitch: variable, handled separately
	0xac: 1, 0xad: 1, 0xae: 1, 0xaf: 1, 0xb0: 1, 0xb1: 1,
	0xb2: 3, 0xb3: 3, 0xb4: 3, 0xb5: 3,
	0xb6: 3, 0xb7: 3, 0xb8: 3, 0xb9: 5, 0xba: 5,
	0xbb: 3, 0xbc: 2, 0xbd: 3, 0xbe: 1, 0xbf: 1,
	0xc0: 3, 0xc1: 3, 0xc2: 1, 0xc3: 1,
	// 0xc4 wide: variable, handled separately
	0xc5: 4, 0xc6: 3, 0xc7: 3, 0xc8: 5, 0xc9: 5,
}

const (
	opInvokeVirtual   = 0xb6
	opInvokeSpecial   = 0xb7
	opInvokeStatic    = 0xb8
	opInvokeInterface = 0xb9
	opInvokeDynamic   = 0xba
	opTableSwitch     = 0xaa
	opLookupSwitch    = 0xab
	opWide            = 0xc4
	opIInc            = 0x84
)

// instructionLength returns the byte length of the instruction starting
// at pc, including the opcode byte, and correctly accounts for padding
// in tableswitch/lookupswitch and the doubled operand width of a wide
// instruction so the walker never desynchronizes.
func instructionLength(code []byte, pc int) (int, error) {
	if pc >= len(code) {
		return 0, &DecodeError{Kind: TruncatedClassFile, Message: "instruction pointer past end of code array"}
	}
	op := code[pc]

	switch op {
	case opTableSwitch:
		pad := (4 - (pc+1)%4) % 4
		base := pc + 1 + pad
		if base+12 > len(code) {
			return 0, &DecodeError{Kind: TruncatedClassFile, Message: "truncated tableswitch"}
		}
		low := int32(binary.BigEndian.Uint32(code[base+4 : base+8]))
		high := int32(binary.BigEndian.Uint32(code[base+8 : base+12]))
		count := int(high-low) + 1
		if count < 0 {
			return 0, &DecodeError{Kind: TruncatedClassFile, Message: "invalid tableswitch range"}
		}
		return (base + 12 + count*4) - pc, nil

	case opLookupSwitch:
		pad := (4 - (pc+1)%4) % 4
		base := pc + 1 + pad
		if base+8 > len(code) {
			return 0, &DecodeError{Kind: TruncatedClassFile, Message: "truncated lookupswitch"}
		}
		npairs := int(binary.BigEndian.Uint32(code[base+4 : base+8]))
		if npairs < 0 {
			return 0, &DecodeError{Kind: TruncatedClassFile, Message: "invalid lookupswitch pair count"}
		}
		return (base + 8 + npairs*8) - pc, nil

	case opWide:
		if pc+1 >= len(code) {
			return 0, &DecodeError{Kind: TruncatedClassFile, Message: "truncated wide instruction"}
		}
		if code[pc+1] == opIInc {
			return 6, nil // wide + iinc opcode + 2-byte index + 2-byte const
		}
		return 4, nil // wide + opcode + 2-byte index
	}

	n := fixedLength[op]
	if n == 0 {
		n = 1
	}
	if pc+n > len(code) {
		return 0, &DecodeError{Kind: TruncatedClassFile, Message: "instruction runs past end of code array"}
	}
	return n, nil
}

// walkCallTargets scans a method's code array for the four
// method-invocation instruction variants and records the call target
// each one references. Every other instruction is skipped but its
// length is still computed so the cursor never desynchronizes.
func walkCallTargets(cp *constantPool, code []byte) ([]CallTarget, error) {
	var targets []CallTarget
	pc := 0
	for pc < len(code) {
		op := code[pc]
		n, err := instructionLength(code, pc)
		if err != nil {
			return targets, err
		}

		switch op {
		case opInvokeVirtual, opInvokeSpecial, opInvokeStatic:
			if pc+3 > len(code) {
				return targets, &DecodeError{Kind: TruncatedClassFile, Message: "truncated invoke instruction"}
			}
			idx := binary.BigEndian.Uint16(code[pc+1 : pc+3])
			owner, name, desc, err := resolveInvokeTarget(cp, idx)
			if err == nil {
				targets = append(targets, CallTarget{Owner: owner, Name: name, Descriptor: desc})
			}

		case opInvokeInterface:
			if pc+3 > len(code) {
				return targets, &DecodeError{Kind: TruncatedClassFile, Message: "truncated invokeinterface instruction"}
			}
			idx := binary.BigEndian.Uint16(code[pc+1 : pc+3])
			owner, name, desc, err := cp.methodRef(idx)
			if err == nil {
				targets = append(targets, CallTarget{Owner: owner, Name: name, Descriptor: desc})
			}

			// opInvokeDynamic intentionally has no bound receiver class, so it
			// does not participate in owner-qualified call-target matching;
			// the recorded targets list is left unchanged for it.
		}

		pc += n
	}
	return targets, nil
}

// resolveInvokeTarget resolves a Methodref, or (for a private-interface
// default method invoked via invokespecial/invokestatic) an
// InterfaceMethodref, at the given constant pool index. methodRef
// already accepts either tag.
func resolveInvokeTarget(cp *constantPool, idx uint16) (owner, name, desc string, err error) {
	return cp.methodRef(idx)
}
