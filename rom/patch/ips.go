package patch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"

	"github.com/joshuapare/romkit/internal/format"
	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/dirty"
)

type ipsRecordHeader struct {
	Offset [3]byte
	Size   uint16
}

func (h ipsRecordHeader) offset() int {
	return int(h.Offset[0])<<16 | int(h.Offset[1])<<8 | int(h.Offset[2])
}

type ipsRLEHeader struct {
	Count uint16
	Fill  uint8
}

// ReadIPS parses an IPS patch. Zero-fill RLE runs of at least 0x10 bytes
// mark their range free; all other records mark it used.
func ReadIPS(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading IPS patch: %w", err)
	}
	if !IsIPS(data) {
		return nil, fmt.Errorf("missing %q magic: %w", format.IPSMagic, ErrMalformed)
	}

	var records []Record
	pos := len(format.IPSMagic)
	for {
		rest := data[pos:]
		if bytes.HasPrefix(rest, []byte(format.IPSEOF)) {
			if trailer := len(rest) - len(format.IPSEOF); trailer > 0 {
				logger.Debug("patch: ignoring bytes after IPS EOF", "bytes", trailer)
			}
			return records, nil
		}

		rec, n, err := readIPSRecord(rest)
		if err != nil {
			return nil, fmt.Errorf("record at 0x%X: %w", pos, err)
		}
		records = append(records, rec)
		pos += n
	}
}

// readIPSRecord decodes the record at the start of b and returns it with
// the number of bytes consumed.
func readIPSRecord(b []byte) (Record, int, error) {
	if len(b) < format.IPSRecordHeaderSize {
		return Record{}, 0, fmt.Errorf("truncated header (missing EOF?): %w", ErrMalformed)
	}
	var h ipsRecordHeader
	if err := restruct.Unpack(b[:format.IPSRecordHeaderSize], binary.BigEndian, &h); err != nil {
		return Record{}, 0, fmt.Errorf("header: %v: %w", err, ErrMalformed)
	}
	n := format.IPSRecordHeaderSize

	if h.Size != 0 {
		end := n + int(h.Size)
		if end > len(b) {
			return Record{}, 0, fmt.Errorf("payload of 0x%X bytes truncated: %w", h.Size, ErrMalformed)
		}
		data := bytes.Clone(b[n:end])
		return Record{Offset: h.offset(), Data: data, Kind: alloc.MarkUsed}, end, nil
	}

	if len(b) < n+format.IPSRLEHeaderSize {
		return Record{}, 0, fmt.Errorf("truncated RLE header: %w", ErrMalformed)
	}
	var rle ipsRLEHeader
	if err := restruct.Unpack(b[n:n+format.IPSRLEHeaderSize], binary.BigEndian, &rle); err != nil {
		return Record{}, 0, fmt.Errorf("RLE header: %v: %w", err, ErrMalformed)
	}
	if rle.Count == 0 {
		return Record{}, 0, fmt.Errorf("empty RLE run: %w", ErrMalformed)
	}

	kind := alloc.MarkUsed
	if rle.Fill == 0 && rle.Count >= format.IPSFreeRunThreshold {
		kind = alloc.MarkFree
	}
	data := bytes.Repeat([]byte{rle.Fill}, int(rle.Count))
	return Record{Offset: h.offset(), Data: data, Kind: kind}, n + format.IPSRLEHeaderSize, nil
}

// WriteIPS writes an IPS patch that reproduces the given ranges of data.
// Ranges longer than one record are split, and a record that would start at
// the offset spelling "EOF" is started one byte earlier.
func WriteIPS(w io.Writer, data []byte, ranges []dirty.Range) error {
	var out bytes.Buffer
	out.WriteString(format.IPSMagic)

	for _, rg := range ranges {
		if rg.Off < 0 || rg.End() > len(data) {
			return fmt.Errorf("range [0x%X, 0x%X) outside 0x%X bytes: %w", rg.Off, rg.End(), len(data), ErrMalformed)
		}
		off, end := rg.Off, rg.End()
		for off < end {
			if off == format.IPSEOFOffset {
				off--
			}
			n := min(end-off, format.IPSMaxRecord)
			if off > format.IPSMaxOffset {
				return fmt.Errorf("offset 0x%X not addressable: %w", off, ErrMalformed)
			}

			var hdr [format.IPSRecordHeaderSize]byte
			format.PutU24BE(hdr[:], 0, uint32(off))
			format.PutU16BE(hdr[:], 3, uint16(n))
			out.Write(hdr[:])
			out.Write(data[off : off+n])
			off += n
		}
	}

	out.WriteString(format.IPSEOF)
	_, err := w.Write(out.Bytes())
	return err
}
