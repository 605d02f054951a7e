package classfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func methodRefPool() *constantPool {
	entries := make([]cpEntry, 7)
	entries[1] = cpEntry{tag: tagMethodref, classIndex: 2, nameAndTypeIndex: 4}
	entries[2] = cpEntry{tag: tagClass, nameIndex: 3}
	entries[3] = cpEntry{tag: tagUTF8, utf8: "com/example/UserService"}
	entries[4] = cpEntry{tag: tagNameAndType, ntNameIndex: 5, ntDescIndex: 6}
	entries[5] = cpEntry{tag: tagUTF8, utf8: "save"}
	entries[6] = cpEntry{tag: tagUTF8, utf8: "(Ljava/lang/Object;)V"}
	return &constantPool{entries: entries}
}

func TestWalkCallTargetsInvokevirtual(t *testing.T) {
	cp := methodRefPool()
	code := []byte{0xb6, 0x00, 0x01, 0xb1} // invokevirtual #1; return
	targets, err := walkCallTargets(cp, code)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.Equal(t, CallTarget{
		Owner:      "com.example.UserService",
		Name:       "save",
		Descriptor: "(Ljava/lang/Object;)V",
	}, targets[0])
}

func TestWalkCallTargetsSkipsNonInvokeInstructions(t *testing.T) {
	cp := methodRefPool()
	code := []byte{0x2a, 0xb7, 0x00, 0x01, 0xb1} // aload_0; invokespecial #1; return
	targets, err := walkCallTargets(cp, code)
	require.NoError(t, err)
	require.Len(t, targets, 1)
}

func TestInstructionLengthFixed(t *testing.T) {
	n, err := instructionLength([]byte{0xb6, 0x00, 0x01}, 0)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestInstructionLengthWideIinc(t *testing.T) {
	code := []byte{0xc4, 0x84, 0x00, 0x01, 0x00, 0x02}
	n, err := instructionLength(code, 0)
	require.NoError(t, err)
	require.Equal(t, 6, n)
}

func TestInstructionLengthTableSwitch(t *testing.T) {
	// tableswitch at pc=1 so padding is 2 bytes to reach a 4-byte boundary.
	code := make([]byte, 1+1+2+12+8) // opcode byte(at 1) + pad(2) + default/low/high(12) + 2 offsets
	code[1] = opTableSwitch
	// default offset at code[1+1+2 : +4]
	base := 1 + 1 + 2
	writeBE32(code[base:base+4], 0)  // default
	writeBE32(code[base+4:base+8], 0) // low
	writeBE32(code[base+8:base+12], 1) // high -> 2 entries
	n, err := instructionLength(code, 1)
	require.NoError(t, err)
	require.Equal(t, base+12+2*4-1, n)
}

func writeBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
