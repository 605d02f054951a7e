package classfile

// parseMethods reads the methods_count followed by that many
// method_info structures: each one's name, descriptor, code (for call
// targets), and its own annotation/parameter-annotation tables.
func parseMethods(c *cursor, cp *constantPool) ([]*MethodView, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}

	methods := make([]*MethodView, 0, count)
	for i := 0; i < int(count); i++ {
		mv, err := parseOneMethod(c, cp)
		if err != nil {
			return methods, err
		}
		methods = append(methods, mv)
	}
	return methods, nil
}

func parseOneMethod(c *cursor, cp *constantPool) (*MethodView, error) {
	if _, err := c.u2(); err != nil { // access_flags: not surfaced directly
		return nil, err
	}
	nameIdx, err := c.u2()
	if err != nil {
		return nil, err
	}
	name, err := cp.utf8(nameIdx)
	if err != nil {
		return nil, err
	}
	descIdx, err := c.u2()
	if err != nil {
		return nil, err
	}
	descriptor, err := cp.utf8(descIdx)
	if err != nil {
		return nil, err
	}

	params, ret, err := parseMethodDescriptor(descriptor)
	if err != nil {
		return nil, err
	}

	mv := &MethodView{
		Name:                 name,
		Descriptor:           descriptor,
		ReturnType:           ret,
		ParameterTypes:       params,
		ParameterAnnotations: make([][]Annotation, len(params)),
	}

	attrCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		attrNameIdx, err := c.u2()
		if err != nil {
			return nil, err
		}
		length, err := c.u4()
		if err != nil {
			return nil, err
		}
		raw, err := c.bytes(int(length))
		if err != nil {
			return nil, err
		}

		switch attrName(cp, attrNameIdx) {
		case "Code":
			code, err := parseCodeAttribute(raw)
			if err != nil {
				return nil, err
			}
			targets, err := walkCallTargets(cp, code)
			if err != nil {
				return nil, err
			}
			mv.CallTargets = targets

		case "RuntimeVisibleAnnotations":
			anns, err := parseAnnotations(newCursor(raw), cp, true)
			if err != nil {
				return nil, err
			}
			mv.Annotations = append(mv.Annotations, anns...)

		case "RuntimeInvisibleAnnotations":
			anns, err := parseAnnotations(newCursor(raw), cp, false)
			if err != nil {
				return nil, err
			}
			mv.Annotations = append(mv.Annotations, anns...)

		case "RuntimeVisibleParameterAnnotations":
			if err := parseParameterAnnotations(raw, cp, true, mv); err != nil {
				return nil, err
			}

		case "RuntimeInvisibleParameterAnnotations":
			if err := parseParameterAnnotations(raw, cp, false, mv); err != nil {
				return nil, err
			}

		case "Deprecated":
			mv.Deprecated = true
		}
	}

	return mv, nil
}

// parseCodeAttribute extracts the raw bytecode array from a Code
// attribute's body, skipping the exception table and any sub-attributes
// (LineNumberTable, LocalVariableTable, StackMapTable — none of which
// this analyzer's heuristics need).
func parseCodeAttribute(raw []byte) ([]byte, error) {
	c := newCursor(raw)
	if _, err := c.u2(); err != nil { // max_stack
		return nil, err
	}
	if _, err := c.u2(); err != nil { // max_locals
		return nil, err
	}
	codeLen, err := c.u4()
	if err != nil {
		return nil, err
	}
	code, err := c.bytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	excTableLen, err := c.u2()
	if err != nil {
		return nil, err
	}
	if err := c.skip(int(excTableLen) * 8); err != nil { // 4 x u2 per entry
		return nil, err
	}

	if err := skipAttributes(c); err != nil {
		return nil, err
	}

	return code, nil
}

// parseParameterAnnotations reads a RuntimeVisible/InvisibleParameter
// Annotations attribute body: a one-byte parameter count (a documented
// quirk of this one attribute — every other *count field in the format
// is two bytes), followed by one num_annotations-prefixed annotation
// list per parameter.
func parseParameterAnnotations(raw []byte, cp *constantPool, visible bool, mv *MethodView) error {
	c := newCursor(raw)
	numParams, err := c.u1()
	if err != nil {
		return err
	}
	for p := 0; p < int(numParams); p++ {
		anns, err := parseAnnotations(c, cp, visible)
		if err != nil {
			return err
		}
		if p < len(mv.ParameterAnnotations) {
			mv.ParameterAnnotations[p] = append(mv.ParameterAnnotations[p], anns...)
		}
	}
	return nil
}

// parseClassAttributes reads the class-level attributes table and
// returns its annotations plus the Deprecated flag.
func parseClassAttributes(c *cursor, cp *constantPool) ([]Annotation, bool, error) {
	count, err := c.u2()
	if err != nil {
		return nil, false, err
	}

	var annotations []Annotation
	deprecated := false

	for i := 0; i < int(count); i++ {
		nameIdx, err := c.u2()
		if err != nil {
			return nil, false, err
		}
		length, err := c.u4()
		if err != nil {
			return nil, false, err
		}
		raw, err := c.bytes(int(length))
		if err != nil {
			return nil, false, err
		}

		switch attrName(cp, nameIdx) {
		case "RuntimeVisibleAnnotations":
			anns, err := parseAnnotations(newCursor(raw), cp, true)
			if err != nil {
				return nil, false, err
			}
			annotations = append(annotations, anns...)
		case "RuntimeInvisibleAnnotations":
			anns, err := parseAnnotations(newCursor(raw), cp, false)
			if err != nil {
				return nil, false, err
			}
			annotations = append(annotations, anns...)
		case "Deprecated":
			deprecated = true
		}
	}

	return annotations, deprecated, nil
}
