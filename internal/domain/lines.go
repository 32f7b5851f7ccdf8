package domain

import "bytes"

// NoLineLimit disables the line cap of NewLineScanner and Parse.
const NoLineLimit = -1

// RawLine is one line of the input buffer without its terminator.
// No is 1-based and counts header lines too. Bytes aliases the input buffer.
type RawLine struct {
	No    int
	Bytes []byte
}

// LineScanner walks a buffer line by line. It is forward-only: once Scan
// returns false it keeps returning false.
type LineScanner struct {
	buf      []byte
	off      int
	no       int
	maxLines int
	line     RawLine
}

// NewLineScanner returns a scanner over buf that yields at most maxLines
// lines. A negative maxLines (NoLineLimit) means no cap.
func NewLineScanner(buf []byte, maxLines int) *LineScanner {
	return &LineScanner{buf: buf, maxLines: maxLines}
}

// Scan advances to the next line, reporting whether one was available.
func (s *LineScanner) Scan() bool {
	if s.off >= len(s.buf) {
		return false
	}
	if s.maxLines >= 0 && s.no >= s.maxLines {
		return false
	}

	rest := s.buf[s.off:]
	end := bytes.IndexByte(rest, '\n')
	var content []byte
	if end < 0 {
		// Final line without terminator.
		content = rest
		s.off = len(s.buf)
	} else {
		content = rest[:end]
		s.off += end + 1
	}
	content = bytes.TrimSuffix(content, []byte{'\r'})

	s.no++
	s.line = RawLine{No: s.no, Bytes: content}
	return true
}

// Line returns the line produced by the last successful Scan.
func (s *LineScanner) Line() RawLine {
	return s.line
}
