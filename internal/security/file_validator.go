// Package security screens files before they are loaded and parsed, so that
// binaries, archives and minified blobs carrying a .java or .go extension
// never reach a front end.
package security

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/paramhints/internal/errors"
)

const (
	// DefaultThresholdKB is the size above which content patterns are checked.
	DefaultThresholdKB = 100
	// DefaultHeaderSize is how much of a file is read for validation.
	DefaultHeaderSize = 64 * 1024

	binaryRatio      = 0.3
	minifiedMinBytes = 16 * 1024
	minifiedLineLen  = 1000
)

// FileValidator reads the head of a file and rejects content that is not
// source code. Signature and binary checks apply to every file; the
// language pattern and minified checks only to files above
// ValidationThreshold, where a wrong guess costs the most.
type FileValidator struct {
	ValidationThreshold int64 // bytes
	HeaderSize          int64 // bytes read from the start of the file
}

func NewFileValidator(thresholdKB int64) *FileValidator {
	return &FileValidator{
		ValidationThreshold: thresholdKB * 1024,
		HeaderSize:          DefaultHeaderSize,
	}
}

// signatures of formats that show up under a source extension by accident
// (build outputs, downloaded artifacts).
var signatures = []struct {
	name  string
	magic []byte
}{
	{"java class file", []byte{0xCA, 0xFE, 0xBA, 0xBE}},
	{"zip or jar archive", []byte{0x50, 0x4B, 0x03, 0x04}},
	{"gzip archive", []byte{0x1F, 0x8B}},
	{"ELF executable", []byte{0x7F, 0x45, 0x4C, 0x46}},
	{"PNG image", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{"JPEG image", []byte{0xFF, 0xD8, 0xFF}},
	{"GIF image", []byte("GIF8")},
	{"PDF document", []byte("%PDF-")},
}

// ValidateFile stats and reads the head of path, then validates it.
func (fv *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewFileError("stat", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.NewFileError("open", path, err)
	}
	defer f.Close()

	header := make([]byte, min(fv.HeaderSize, info.Size()))
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return errors.NewFileError("read", path, err)
	}
	return fv.Validate(path, header[:n], info.Size())
}

// Validate checks header, the first bytes of a file of the given size.
func (fv *FileValidator) Validate(path string, header []byte, size int64) error {
	if err := fv.checkMagicBytes(header); err != nil {
		return errors.NewInvalidContentError(path, err)
	}
	if fv.isBinaryData(header) {
		return errors.NewInvalidContentError(path, stderrors.New("file appears to be binary"))
	}
	if size <= fv.ValidationThreshold {
		return nil
	}
	if isMinified(header) {
		return errors.NewInvalidContentError(path, stderrors.New("file appears to be minified or generated on one line"))
	}
	if err := validateCodeFile(path, header); err != nil {
		return errors.NewInvalidContentError(path, err)
	}
	return nil
}

func (fv *FileValidator) checkMagicBytes(header []byte) error {
	for _, sig := range signatures {
		if bytes.HasPrefix(header, sig.magic) {
			return fmt.Errorf("content is a %s", sig.name)
		}
	}
	return nil
}

// isBinaryData reports a NUL byte or a high share of control characters.
func (fv *FileValidator) isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range data {
		// control characters other than tab, LF, VT, FF and CR, plus DEL
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > binaryRatio
}

func isMinified(header []byte) bool {
	if len(header) < minifiedMinBytes {
		return false
	}
	lines := bytes.Count(header, []byte{'\n'}) + 1
	return len(header)/lines > minifiedLineLen
}

var (
	javaPatterns = [][]byte{
		[]byte("package "),
		[]byte("import "),
		[]byte("class "),
		[]byte("interface "),
		[]byte("enum "),
		[]byte("record "),
		[]byte("@interface"),
		[]byte("public "),
		[]byte("private "),
		[]byte("protected "),
	}

	goPatterns = [][]byte{
		[]byte("package "),
		[]byte("import ("),
		[]byte("func "),
		[]byte("type "),
		[]byte("var "),
		[]byte("const "),
		[]byte("//go:build"),
		[]byte("// +build"),
	}
)

// validateCodeFile checks that the header looks like the language its
// extension claims.
func validateCodeFile(path string, header []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return containsAny(header, javaPatterns, "Java")
	case ".go":
		return containsAny(header, goPatterns, "Go")
	}
	return nil
}

func containsAny(header []byte, patterns [][]byte, language string) error {
	for _, pattern := range patterns {
		if bytes.Contains(header, pattern) {
			return nil
		}
	}
	return fmt.Errorf("no %s patterns found", language)
}
