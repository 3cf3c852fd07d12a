package writer

// MemWriter captures ROM bytes in memory.
type MemWriter struct {
	Buf []byte
}

// WriteROM stores a copy of the provided buffer.
func (w *MemWriter) WriteROM(buf []byte) error {
	w.Buf = append(w.Buf[:0], buf...)
	return nil
}
