package fileutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrUnsupportedEncoding is returned when a character encoding name is neither
// a supported IANA charset nor a WHATWG encoding label.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// LineSeparator is the line terminator WriteAllText emits.
var LineSeparator = "\n"

func init() {
	if runtime.GOOS == "windows" {
		LineSeparator = "\r\n"
	}
}

// lookupEncoding resolves IANA names first. Names IANA does not know or has no
// implementation for, such as US-ASCII, UTF8 or Cp1252, go through the WHATWG
// labels, which map the ASCII family to windows-1252.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrUnsupportedEncoding, name, err)
	}
	return enc, nil
}

// ReadAllText reads the whole file at path, decoding it from the named
// character encoding. Malformed input decodes to U+FFFD.
func ReadAllText(path, encodingName string) (string, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return "", &os.PathError{Op: "read", Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &os.PathError{Op: "read", Path: path, Err: err}
	}
	defer Close(f)

	content, err := ioutil.ReadAll(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return "", &os.PathError{Op: "read", Path: path, Err: err}
	}
	return string(content), nil
}

// WriteAllText writes content to path in the named character encoding,
// creating the parent directory when needed. Each line of content is
// terminated with LineSeparator whatever its original terminator was.
// Characters the encoding cannot represent are replaced.
func WriteAllText(path, content, encodingName string) error {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	if _, err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	if err := writeLines(f, content, enc); err != nil {
		Close(f)
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func writeLines(f *os.File, content string, enc encoding.Encoding) error {
	tw := transform.NewWriter(f, encoding.ReplaceUnsupported(enc.NewEncoder()))
	w := bufio.NewWriter(tw)
	lines := bufio.NewScanner(strings.NewReader(content))
	lines.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	lines.Split(scanLines)
	for lines.Scan() {
		if _, err := w.WriteString(lines.Text()); err != nil {
			return err
		}
		if _, err := w.WriteString(LineSeparator); err != nil {
			return err
		}
	}
	if err := lines.Err(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return tw.Close()
}

// scanLines is bufio.ScanLines extended to the "\r" and "\r\n" terminators.
// A trailing terminator does not yield an extra empty line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A lone "\r" at the end of the buffer may be half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
