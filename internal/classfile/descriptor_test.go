package classfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMethodDescriptorSimple(t *testing.T) {
	params, ret, err := parseMethodDescriptor("(Ljava/lang/Long;I)V")
	require.NoError(t, err)
	require.Equal(t, []string{"java.lang.Long", "int"}, params)
	require.Equal(t, "void", ret)
}

func TestParseMethodDescriptorArraysAndReturn(t *testing.T) {
	params, ret, err := parseMethodDescriptor("([Ljava/lang/String;[[I)Ljava/util/List;")
	require.NoError(t, err)
	require.Equal(t, []string{"java.lang.String[]", "int[][]"}, params)
	require.Equal(t, "java.util.List", ret)
}

func TestParseMethodDescriptorNoParams(t *testing.T) {
	params, ret, err := parseMethodDescriptor("()Ljava/lang/String;")
	require.NoError(t, err)
	require.Empty(t, params)
	require.Equal(t, "java.lang.String", ret)
}

func TestParseMethodDescriptorMissingParen(t *testing.T) {
	_, _, err := parseMethodDescriptor("Ljava/lang/String;")
	require.Error(t, err)
}

func TestDescriptorToDotted(t *testing.T) {
	require.Equal(t, "org.springframework.web.bind.annotation.RequestMapping",
		descriptorToDotted("Lorg/springframework/web/bind/annotation/RequestMapping;"))
}
