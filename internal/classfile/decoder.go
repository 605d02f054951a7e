// Package classfile decodes the subset of the JVM class-file format the
// endpoint inference engine needs: the constant pool, class identity,
// class/method/parameter annotation tables, method descriptors, and the
// call targets referenced from each method body. Nothing here loads or
// executes a class — decoding only ever reads the static structure of
// the file.
package classfile

import (
	"math"
)

const classMagic = 0xCAFEBABE

// latestKnownMajorVersion is the newest class-file major version this
// decoder has been validated against. A newer version is not rejected:
// the decode proceeds and a warning is recorded, since the constant-pool
// and member layout this decoder reads has been stable across Java
// releases far longer than any single major-version bump.
const latestKnownMajorVersion = 66 // Java 22

// Decode parses raw class-file bytes into a ClassView. Warnings (such as
// an unrecognized-but-newer major version) are returned alongside a
// successful result rather than as an error, since they do not stop the
// decode. A non-nil error means the entry could not be decoded at all and
// the caller should skip it and move on to the next one.
func Decode(data []byte) (*ClassView, []string, error) {
	c := newCursor(data)
	var warnings []string

	magic, err := c.u4()
	if err != nil {
		return nil, nil, err
	}
	if magic != classMagic {
		return nil, nil, &DecodeError{Kind: TruncatedClassFile, Message: "bad magic number"}
	}

	_, err = c.u2() // minor version, not surfaced
	if err != nil {
		return nil, nil, err
	}
	majorVersion, err := c.u2()
	if err != nil {
		return nil, nil, err
	}
	if int(majorVersion) > latestKnownMajorVersion {
		versionErr := &DecodeError{
			Kind:    UnsupportedVersion,
			Message: "class-file major version newer than this decoder has been validated against",
		}
		if versionErr.Soft() {
			warnings = append(warnings, versionErr.Error())
		} else {
			return nil, nil, versionErr
		}
	}

	cp, err := parseConstantPool(c)
	if err != nil {
		return nil, warnings, err
	}

	_, err = c.u2() // access_flags: not part of the report contract
	if err != nil {
		return nil, warnings, err
	}

	thisClassIdx, err := c.u2()
	if err != nil {
		return nil, warnings, err
	}
	thisName, err := cp.className(thisClassIdx)
	if err != nil {
		return nil, warnings, err
	}

	superClassIdx, err := c.u2()
	if err != nil {
		return nil, warnings, err
	}
	var superName string
	if superClassIdx != 0 {
		superName, err = cp.className(superClassIdx)
		if err != nil {
			return nil, warnings, err
		}
	}

	ifaceCount, err := c.u2()
	if err != nil {
		return nil, warnings, err
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := c.u2()
		if err != nil {
			return nil, warnings, err
		}
		name, err := cp.className(idx)
		if err != nil {
			return nil, warnings, err
		}
		interfaces = append(interfaces, name)
	}

	if err := skipMembers(c, cp); err != nil { // fields: not part of the report contract
		return nil, warnings, err
	}

	methods, err := parseMethods(c, cp)
	if err != nil {
		return nil, warnings, err
	}

	classAnnotations, deprecated, err := parseClassAttributes(c, cp)
	if err != nil {
		return nil, warnings, err
	}

	return &ClassView{
		Name:         thisName,
		SuperName:    superName,
		Interfaces:   interfaces,
		MajorVersion: int(majorVersion),
		Deprecated:   deprecated,
		Annotations:  classAnnotations,
		Methods:      methods,
	}, warnings, nil
}

func parseConstantPool(c *cursor) (*constantPool, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}
	cp := &constantPool{entries: make([]cpEntry, count)}

	for i := 1; i < int(count); i++ {
		tag, err := c.u1()
		if err != nil {
			return nil, err
		}

		switch tag {
		case tagUTF8:
			length, err := c.u2()
			if err != nil {
				return nil, err
			}
			raw, err := c.bytes(int(length))
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagUTF8, utf8: decodeModifiedUTF8(raw)}

		case tagInteger:
			v, err := c.u4()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagInteger, intVal: int32(v)}

		case tagFloat:
			v, err := c.u4()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagFloat, floatVal: math.Float32frombits(v)}

		case tagLong:
			hi, err := c.u4()
			if err != nil {
				return nil, err
			}
			lo, err := c.u4()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagLong, longVal: int64(hi)<<32 | int64(lo)}
			i++ // Long occupies the next slot too; it is left reserved (tag 0)

		case tagDouble:
			hi, err := c.u4()
			if err != nil {
				return nil, err
			}
			lo, err := c.u4()
			if err != nil {
				return nil, err
			}
			bits := uint64(hi)<<32 | uint64(lo)
			cp.entries[i] = cpEntry{tag: tagDouble, doubleVal: math.Float64frombits(bits)}
			i++ // Double occupies the next slot too

		case tagClass, tagMethodType, tagModule, tagPackage:
			idx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag, nameIndex: idx}

		case tagString:
			idx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagString, nameIndex: idx}

		case tagFieldref, tagMethodref, tagInterfaceMethodref:
			classIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			ntIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag, classIndex: classIdx, nameAndTypeIndex: ntIdx}

		case tagNameAndType:
			nameIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			descIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagNameAndType, ntNameIndex: nameIdx, ntDescIndex: descIdx}

		case tagMethodHandle:
			refKind, err := c.u1()
			if err != nil {
				return nil, err
			}
			refIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tagMethodHandle, refKind: refKind, refIndex: refIdx}

		case tagDynamic, tagInvokeDynamic:
			bsmIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			ntIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag, bootstrapMethodAttrIndex: bsmIdx, nameAndTypeIndex: ntIdx}

		default:
			return nil, &DecodeError{Kind: BadConstantPool, Message: "unrecognized constant pool tag"}
		}
	}

	return cp, nil
}

// decodeModifiedUTF8 decodes the JVM's "modified UTF-8" encoding. It is
// byte-identical to standard UTF-8 for every codepoint used in Java
// identifiers, annotation string literals, and descriptors — the two
// encodings only diverge on the embedded NUL and supplementary-plane
// surrogate-pair representations, neither of which this analyzer needs
// to round-trip, so a direct string conversion is sufficient here.
func decodeModifiedUTF8(raw []byte) string {
	return string(raw)
}

// member mirrors the field_info/method_info layout enough to walk past
// fields (whose content the report contract does not need) and to read
// methods fully.
type member struct {
	nameIndex int
	descIndex int
}

// skipMembers reads and discards the fields table (field_info entries),
// whose content is not part of ClassView, while still correctly
// advancing the cursor past every attribute it carries.
func skipMembers(c *cursor, cp *constantPool) error {
	count, err := c.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := c.u2(); err != nil { // access_flags
			return err
		}
		if _, err := c.u2(); err != nil { // name_index
			return err
		}
		if _, err := c.u2(); err != nil { // descriptor_index
			return err
		}
		if err := skipAttributes(c); err != nil {
			return err
		}
	}
	return nil
}

// skipAttributes reads an attributes_count followed by that many
// attribute_info structures, discarding their contents. Used wherever
// the report contract has no use for a member's raw attributes.
func skipAttributes(c *cursor) error {
	count, err := c.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := c.u2(); err != nil { // attribute_name_index
			return err
		}
		length, err := c.u4()
		if err != nil {
			return err
		}
		if err := c.skip(int(length)); err != nil {
			return err
		}
	}
	return nil
}

func attrName(cp *constantPool, nameIndex uint16) string {
	name, err := cp.utf8(nameIndex)
	if err != nil {
		return ""
	}
	return name
}
