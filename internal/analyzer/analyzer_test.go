package analyzer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"warscope/internal/archive"
	"warscope/internal/config"
)

// classBuilder assembles raw class-file bytes without going through a
// real compiler, mirroring the classfile package's own test helper.
type classBuilder struct {
	buf bytes.Buffer
}

func (b *classBuilder) u1(v uint8)  { b.buf.WriteByte(v) }
func (b *classBuilder) u2(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) u4(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) utf8(s string) {
	b.u1(1) // CONSTANT_Utf8
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
}
func (b *classBuilder) classRef(nameIdx uint16) {
	b.u1(7) // CONSTANT_Class
	b.u2(nameIdx)
}
func (b *classBuilder) raw(data []byte) { b.buf.Write(data) }

// buildControllerClass builds a class carrying a class-level
// RequestMapping("/api") and RestController marker, and one method
// "list" carrying GetMapping("/list").
func buildControllerClass() []byte {
	var cpBuf classBuilder
	cpBuf.utf8("com/example/UserController")                                  // 1
	cpBuf.classRef(1)                                                         // 2
	cpBuf.utf8("java/lang/Object")                                            // 3
	cpBuf.classRef(3)                                                         // 4
	cpBuf.utf8("list")                                                        // 5
	cpBuf.utf8("()Ljava/lang/String;")                                        // 6
	cpBuf.utf8("RuntimeVisibleAnnotations")                                   // 7
	cpBuf.utf8("Lorg/springframework/web/bind/annotation/RestController;")    // 8
	cpBuf.utf8("Lorg/springframework/web/bind/annotation/RequestMapping;")    // 9
	cpBuf.utf8("value")                                                       // 10
	cpBuf.utf8("/api")                                                        // 11
	cpBuf.utf8("Lorg/springframework/web/bind/annotation/GetMapping;")        // 12
	cpBuf.utf8("/list")                                                       // 13

	// class-level RuntimeVisibleAnnotations: RestController, RequestMapping("/api")
	var classAnnBody classBuilder
	classAnnBody.u2(2) // num_annotations
	classAnnBody.u2(8) // RestController, no pairs
	classAnnBody.u2(0)
	classAnnBody.u2(9) // RequestMapping
	classAnnBody.u2(1) // one pair
	classAnnBody.u2(10) // "value"
	classAnnBody.u1('s')
	classAnnBody.u2(11) // "/api"

	// method-level RuntimeVisibleAnnotations: GetMapping("/list")
	var methodAnnBody classBuilder
	methodAnnBody.u2(1)
	methodAnnBody.u2(12) // GetMapping
	methodAnnBody.u2(1)
	methodAnnBody.u2(10) // "value"
	methodAnnBody.u1('s')
	methodAnnBody.u2(13) // "/list"

	var b classBuilder
	b.u4(0xCAFEBABE)
	b.u2(0)
	b.u2(61)

	b.u2(14)
	b.raw(cpBuf.buf.Bytes())

	b.u2(0x0021)
	b.u2(2)
	b.u2(4)
	b.u2(0)
	b.u2(0) // fields_count

	b.u2(1) // methods_count
	b.u2(0x0001)
	b.u2(5)
	b.u2(6)
	b.u2(1) // method attributes_count
	b.u2(7)
	b.u4(uint32(methodAnnBody.buf.Len()))
	b.raw(methodAnnBody.buf.Bytes())

	b.u2(1) // class attributes_count
	b.u2(7)
	b.u4(uint32(classAnnBody.buf.Len()))
	b.raw(classAnnBody.buf.Bytes())

	return b.buf.Bytes()
}

func buildWAR(t *testing.T, classes map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.war")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range classes {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestAnalyzeMissingArchiveReturnsArchiveNotFound(t *testing.T) {
	_, err := Analyze(context.Background(), "/no/such/file.war", testConfig(t))
	require.Error(t, err)
	require.True(t, errors.Is(err, archive.ErrArchiveNotFound))
}

func TestAnalyzeFindsComposedEndpoint(t *testing.T) {
	warPath := buildWAR(t, map[string][]byte{
		"WEB-INF/classes/com/example/UserController.class": buildControllerClass(),
	})

	rep, err := Analyze(context.Background(), warPath, testConfig(t))
	require.NoError(t, err)
	require.Equal(t, 1, rep.TotalAPIs)
	require.Len(t, rep.APIs, 1)

	ep := rep.APIs[0]
	require.Equal(t, "/api/list", ep.APIURL)
	require.Equal(t, "GET", ep.HTTPMethod)
	require.Equal(t, "com.example.UserController", ep.ControllerClass)
	require.Equal(t, "list", ep.ControllerMethod)
	require.False(t, ep.AltersState)
	require.Equal(t, 61, ep.MethodDetails.JavaVersion)
	require.False(t, ep.MethodDetails.Deprecated)
}

func TestAnalyzeSkipsUndecodableEntryAndRecordsDiagnostic(t *testing.T) {
	warPath := buildWAR(t, map[string][]byte{
		"WEB-INF/classes/com/example/Bad.class": {0x00, 0x00, 0x00, 0x00},
	})

	rep, err := Analyze(context.Background(), warPath, testConfig(t))
	require.NoError(t, err)
	require.Equal(t, 0, rep.TotalAPIs)
	require.NotEmpty(t, rep.Diagnostics)
}

func TestAnalyzeCancellationSurfacesBeforeReport(t *testing.T) {
	warPath := buildWAR(t, map[string][]byte{
		"WEB-INF/classes/com/example/UserController.class": buildControllerClass(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, warPath, testConfig(t))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAnalysisCancelled))
}
