package classfile

// ClassView is the decoder's sole output for one class entry: the
// fully-qualified identity, annotation tables, and method bodies the
// inference engine needs. It is immutable once constructed and meant to
// be streamed rather than retained — callers hold at most the current
// ClassView and its derived endpoints.
type ClassView struct {
	Name       string // fully-qualified, dot-separated
	SuperName  string
	Interfaces []string

	// MajorVersion is the class-file major version; surfaced as a
	// supplemented feature (see SPEC_FULL.md) rather than part of the
	// stable report contract.
	MajorVersion int
	Deprecated   bool

	Annotations []Annotation
	Methods     []*MethodView
}

// MethodView is one method of a ClassView: its descriptor, its own
// annotations and per-parameter annotations, and the call targets found
// in its instruction stream.
type MethodView struct {
	Name       string
	Descriptor string // raw JVM descriptor, e.g. "(Ljava/lang/Long;)V"

	ReturnType     string   // canonicalized, dotted, array-bracketed
	ParameterTypes []string // canonicalized, one per formal parameter

	Annotations          []Annotation
	ParameterAnnotations [][]Annotation // indexed by parameter position

	CallTargets []CallTarget

	Deprecated bool
}

// CallTarget is the (owner, name, descriptor) of one method-invocation
// instruction, captured without resolving what the invocation actually
// dispatches to at runtime — virtual dispatch, overriding, and dynamic
// call sites are out of scope for a static decoder.
type CallTarget struct {
	Owner      string
	Name       string
	Descriptor string
}

// Annotation is a decoded runtime (in)visible annotation: its type name
// and the element-value pairs it carries. Annotation itself backs the
// "nested annotation" shape of AnnotationValue, since an annotation
// attached to an annotation element is structurally identical to one
// attached to a class, method, or parameter.
type Annotation struct {
	TypeName   string // fully-qualified, dot-separated
	SimpleName string // last segment of TypeName
	Visible    bool   // RuntimeVisibleAnnotations vs RuntimeInvisibleAnnotations
	Values     map[string]AnnotationValue
}

// AnnotationValueKind tags the five shapes an element_value structure
// can take: primitive, enum reference, class reference, nested
// annotation, and array.
type AnnotationValueKind int

const (
	AVPrimitive AnnotationValueKind = iota
	AVEnum
	AVClass
	AVAnnotation
	AVArray
)

// AnnotationValue is the tagged variant backing every element-value a
// decoded annotation can carry. Only the field matching Kind is
// meaningful; the As* extraction helpers report ok=false rather than
// panicking when the actual shape differs from what the caller expected.
type AnnotationValue struct {
	Kind AnnotationValueKind

	Primitive interface{} // string, bool, int64, or float64

	EnumType  string
	EnumConst string

	ClassName string

	Nested *Annotation

	Array []AnnotationValue
}

// AsString extracts a string primitive, or returns ok=false if this
// value is not a string primitive.
func (v AnnotationValue) AsString() (string, bool) {
	if v.Kind != AVPrimitive {
		return "", false
	}
	s, ok := v.Primitive.(string)
	return s, ok
}

// AsBool extracts a bool primitive, or returns ok=false otherwise.
func (v AnnotationValue) AsBool() (bool, bool) {
	if v.Kind != AVPrimitive {
		return false, false
	}
	b, ok := v.Primitive.(bool)
	return b, ok
}

// StringValues flattens a value that may be either a bare primitive
// string or an array of primitive strings into a []string — the
// common case for annotation attributes like `value`/`path`/`method`
// that Java allows as either a single element or an array.
func (v AnnotationValue) StringValues() []string {
	switch v.Kind {
	case AVPrimitive:
		if s, ok := v.Primitive.(string); ok {
			return []string{s}
		}
		return nil
	case AVEnum:
		return []string{v.EnumConst}
	case AVArray:
		var out []string
		for _, el := range v.Array {
			out = append(out, el.StringValues()...)
		}
		return out
	default:
		return nil
	}
}
