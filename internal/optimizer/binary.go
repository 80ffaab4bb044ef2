package optimizer

import "bytes"

// isBinary adapts the teacher's ELF/PE-header, NUL-byte, and
// control-character-ratio heuristic to decide whether data should be
// treated as text at all before handing it to a syntax adapter.
func isBinary(data []byte) bool {
	if len(data) >= 4 && data[0] == 0x7f && bytes.Equal(data[1:4], []byte("ELF")) {
		return true
	}
	if len(data) >= 2 && data[0] == 'M' && data[1] == 'Z' {
		return true
	}
	for i := 0; i < len(data) && i < 512; i++ {
		if data[i] == 0 {
			return true
		}
	}
	sample := len(data)
	if sample > 1024 {
		sample = 1024
	}
	if sample == 0 {
		return false
	}
	nonText := 0
	for i := 0; i < sample; i++ {
		b := data[i]
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 {
			nonText++
		}
	}
	return (nonText*100)/sample > 10
}
