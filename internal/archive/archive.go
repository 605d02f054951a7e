// Package archive implements the archive walker: it opens a WAR as a
// zip, enumerates loose class files under the conventional classes
// directory, and recurses one level into each nested library jar under
// the conventional lib directory, yielding a ClassEntry per class file
// found.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"warscope/internal/config"
)

// Origin identifies where a ClassEntry's bytes came from: the outer
// archive path, and — for classes found inside a nested jar — the
// nested jar's entry name within the outer archive. Inner is empty for
// entries found directly under the classes directory. Modeled as a
// struct rather than a composite delimited string so callers never have
// to split or escape it.
type Origin struct {
	Outer string
	Inner string
}

// ClassEntry is one class file found while walking an archive.
type ClassEntry struct {
	Origin Origin
	Path   string // entry path within whichever archive directly held it
	Bytes  []byte
}

// ErrArchiveNotFound and ErrArchiveOpenError are the two fatal outcomes
// a caller can match against with errors.Is: neither leaves the walk
// partially complete.
var (
	ErrArchiveNotFound = fmt.Errorf("archive not found")
	ErrArchiveOpenError = fmt.Errorf("archive open error")
)

// Walk opens the archive at path and streams every class entry it finds
// over the returned channel, closing it when the walk completes, errors
// fatally, or ctx is cancelled. Per-entry failures (an unreadable nested
// jar, a corrupt zip record) are accumulated into the returned
// *multierror.Error rather than aborting the walk — a single malformed
// entry is skipped with a diagnostic, not a reason to fail the run.
//
// The multierror is only final once the returned channel is drained and
// closed; callers should read it after ranging over the channel, not
// concurrently with it.
func Walk(ctx context.Context, archivePath string, cfg *config.Config) (<-chan ClassEntry, *multierror.Error, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
		}
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrArchiveOpenError, archivePath, err)
	}

	out := make(chan ClassEntry)
	diag := &multierror.Error{}

	go func() {
		defer r.Close()
		defer close(out)

		for _, f := range r.File {
			select {
			case <-ctx.Done():
				return
			default:
			}

			switch {
			case isClassUnderClasses(f.Name, cfg.Archive.ClassesPrefix, cfg.Archive.ClassSuffix):
				entry, err := readEntry(f)
				if err != nil {
					diag = multierror.Append(diag, fmt.Errorf("%s: %w", f.Name, err))
					continue
				}
				select {
				case out <- ClassEntry{Origin: Origin{Outer: archivePath}, Path: f.Name, Bytes: entry}:
				case <-ctx.Done():
					return
				}

			case isJarUnderLib(f.Name, cfg.Archive.LibPrefix, cfg.Archive.JarSuffix):
				if err := walkNestedJar(ctx, archivePath, f, cfg, out); err != nil {
					diag = multierror.Append(diag, fmt.Errorf("%s: %w", f.Name, err))
				}
			}
		}
	}()

	return out, diag, nil
}

func isClassUnderClasses(name, classesPrefix, classSuffix string) bool {
	return strings.HasPrefix(name, classesPrefix) && strings.HasSuffix(name, classSuffix)
}

func isJarUnderLib(name, libPrefix, jarSuffix string) bool {
	if !strings.HasPrefix(name, libPrefix) {
		return false
	}
	rest := name[len(libPrefix):]
	return strings.HasSuffix(rest, jarSuffix) && !strings.Contains(rest, "/")
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// walkNestedJar opens one nested library jar in memory and yields every
// class entry inside it, one recursion level deep: WAR -> embedded jar
// -> class entries. A jar-within-a-jar is not followed any further.
func walkNestedJar(ctx context.Context, outerPath string, f *zip.File, cfg *config.Config, out chan<- ClassEntry) error {
	data, err := readEntry(f)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("not a valid nested archive: %w", err)
	}

	nestedName := path.Base(f.Name)
	for _, inner := range zr.File {
		if !strings.HasSuffix(inner.Name, cfg.Archive.ClassSuffix) {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := readEntry(inner)
		if err != nil {
			return fmt.Errorf("%s: %w", inner.Name, err)
		}

		select {
		case out <- ClassEntry{Origin: Origin{Outer: outerPath, Inner: nestedName}, Path: inner.Name, Bytes: b}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
