package classfile

import "strings"

// parseAnnotations reads the body of a RuntimeVisibleAnnotations or
// RuntimeInvisibleAnnotations attribute (the num_annotations count
// followed by that many annotation structures) starting at the cursor's
// current position.
func parseAnnotations(c *cursor, cp *constantPool, visible bool) ([]Annotation, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}
	out := make([]Annotation, 0, count)
	for i := 0; i < int(count); i++ {
		a, err := parseAnnotation(c, cp, visible)
		if err != nil {
			return out, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// parseAnnotation reads one annotation structure: type_index,
// num_element_value_pairs, then that many (name, value) pairs.
func parseAnnotation(c *cursor, cp *constantPool, visible bool) (*Annotation, error) {
	typeIndex, err := c.u2()
	if err != nil {
		return nil, err
	}
	typeDesc, err := cp.utf8(typeIndex)
	if err != nil {
		return nil, &DecodeError{Kind: MalformedAnnotation, Message: "annotation type_index does not resolve to a UTF8 entry"}
	}
	typeName := descriptorToDotted(typeDesc)

	pairCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	values := make(map[string]AnnotationValue, pairCount)
	for i := 0; i < int(pairCount); i++ {
		nameIndex, err := c.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.utf8(nameIndex)
		if err != nil {
			return nil, &DecodeError{Kind: MalformedAnnotation, Message: "element_name_index does not resolve to a UTF8 entry"}
		}
		val, err := parseElementValue(c, cp)
		if err != nil {
			return nil, err
		}
		values[name] = val
	}

	return &Annotation{
		TypeName:   typeName,
		SimpleName: simpleName(typeName),
		Visible:    visible,
		Values:     values,
	}, nil
}

// parseElementValue reads one element_value structure: a one-byte tag
// discriminating the five AnnotationValue shapes, followed by the tag's
// own payload. An unrecognized tag returns a MalformedAnnotation error
// rather than misinterpreting the remaining bytes. The attribute parsers
// in method.go pass that error up, so the whole class entry fails to
// decode; the single attribute is not dropped on its own.
func parseElementValue(c *cursor, cp *constantPool) (AnnotationValue, error) {
	tag, err := c.u1()
	if err != nil {
		return AnnotationValue{}, err
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		idx, err := c.u2()
		if err != nil {
			return AnnotationValue{}, err
		}
		return primitiveFromConst(cp, tag, idx)

	case 's':
		idx, err := c.u2()
		if err != nil {
			return AnnotationValue{}, err
		}
		s, err := cp.utf8(idx)
		if err != nil {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "string element_value does not resolve to UTF8"}
		}
		return AnnotationValue{Kind: AVPrimitive, Primitive: s}, nil

	case 'e':
		typeNameIndex, err := c.u2()
		if err != nil {
			return AnnotationValue{}, err
		}
		constNameIndex, err := c.u2()
		if err != nil {
			return AnnotationValue{}, err
		}
		typeDesc, err := cp.utf8(typeNameIndex)
		if err != nil {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "enum type_name_index does not resolve to UTF8"}
		}
		constName, err := cp.utf8(constNameIndex)
		if err != nil {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "enum const_name_index does not resolve to UTF8"}
		}
		return AnnotationValue{Kind: AVEnum, EnumType: descriptorToDotted(typeDesc), EnumConst: constName}, nil

	case 'c':
		classInfoIndex, err := c.u2()
		if err != nil {
			return AnnotationValue{}, err
		}
		classDesc, err := cp.utf8(classInfoIndex)
		if err != nil {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "class_info_index does not resolve to UTF8"}
		}
		return AnnotationValue{Kind: AVClass, ClassName: descriptorToDotted(classDesc)}, nil

	case '@':
		nested, err := parseAnnotation(c, cp, true)
		if err != nil {
			return AnnotationValue{}, err
		}
		return AnnotationValue{Kind: AVAnnotation, Nested: nested}, nil

	case '[':
		numValues, err := c.u2()
		if err != nil {
			return AnnotationValue{}, err
		}
		arr := make([]AnnotationValue, 0, numValues)
		for i := 0; i < int(numValues); i++ {
			v, err := parseElementValue(c, cp)
			if err != nil {
				return AnnotationValue{}, err
			}
			arr = append(arr, v)
		}
		return AnnotationValue{Kind: AVArray, Array: arr}, nil

	default:
		return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "unrecognized element_value tag '" + string(rune(tag)) + "'"}
	}
}

// primitiveFromConst resolves the constant-pool entry behind a numeric
// or boolean element_value tag into the matching Go primitive.
func primitiveFromConst(cp *constantPool, tag uint8, idx uint16) (AnnotationValue, error) {
	e, err := cp.entry(idx)
	if err != nil {
		return AnnotationValue{}, err
	}
	switch tag {
	case 'Z':
		if e.tag != tagInteger {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "boolean element_value does not resolve to an Integer constant"}
		}
		return AnnotationValue{Kind: AVPrimitive, Primitive: e.intVal != 0}, nil
	case 'B', 'C', 'I', 'S':
		if e.tag != tagInteger {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "integral element_value does not resolve to an Integer constant"}
		}
		return AnnotationValue{Kind: AVPrimitive, Primitive: int64(e.intVal)}, nil
	case 'J':
		if e.tag != tagLong {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "long element_value does not resolve to a Long constant"}
		}
		return AnnotationValue{Kind: AVPrimitive, Primitive: e.longVal}, nil
	case 'F':
		if e.tag != tagFloat {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "float element_value does not resolve to a Float constant"}
		}
		return AnnotationValue{Kind: AVPrimitive, Primitive: float64(e.floatVal)}, nil
	case 'D':
		if e.tag != tagDouble {
			return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "double element_value does not resolve to a Double constant"}
		}
		return AnnotationValue{Kind: AVPrimitive, Primitive: e.doubleVal}, nil
	}
	return AnnotationValue{}, &DecodeError{Kind: MalformedAnnotation, Message: "unreachable primitive tag"}
}

// descriptorToDotted converts a field-type descriptor such as
// "Lcom/example/Foo;" into its dotted form "com.example.Foo". Used for
// annotation type descriptors and class-literal element values, which
// are always either an object type or (rarely) an array of one.
func descriptorToDotted(desc string) string {
	typ, _, err := parseFieldType(desc, 0)
	if err != nil {
		return toDotted(strings.Trim(desc, "L;"))
	}
	return typ
}

func simpleName(fqn string) string {
	i := strings.LastIndexByte(fqn, '.')
	if i < 0 {
		return fqn
	}
	return fqn[i+1:]
}
