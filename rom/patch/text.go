package patch

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/joshuapare/romkit/internal/format"
	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/alloc"
)

const (
	textCommentPrefix = "#"
	textFieldSep      = ":"
	textFieldCount    = 3

	scannerInitialBufferSize = 64 * 1024
	scannerMaxLineSize       = 1024 * 1024
)

// ReadText parses a text patch. Every record marks its range used.
//
// The byte list determines what is written. A length field that disagrees
// with it is logged and ignored, as older tools did.
func ReadText(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	scanner.Buffer(make([]byte, 0, scannerInitialBufferSize), scannerMaxLineSize)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, textCommentPrefix) {
			continue
		}

		rec, err := parseTextLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning text patch: %w", err)
	}
	return records, nil
}

func parseTextLine(line string) (Record, error) {
	fields := strings.SplitN(line, textFieldSep, textFieldCount)
	if len(fields) != textFieldCount {
		return Record{}, fmt.Errorf("want offset:length:bytes, got %q: %w", line, ErrMalformed)
	}

	off, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 16, 32)
	if err != nil {
		return Record{}, fmt.Errorf("offset %q: %w", fields[0], ErrMalformed)
	}
	length, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 16, 32)
	if err != nil {
		return Record{}, fmt.Errorf("length %q: %w", fields[1], ErrMalformed)
	}
	data, err := hex.DecodeString(strings.Join(strings.Fields(fields[2]), ""))
	if err != nil {
		return Record{}, fmt.Errorf("bytes: %v: %w", err, ErrMalformed)
	}

	end := off + max(length, uint64(len(data)))
	if end > format.IPSMaxOffset+1 {
		return Record{}, fmt.Errorf("record [0x%X, 0x%X) past 0x%X: %w",
			off, end, format.IPSMaxOffset+1, ErrMalformed)
	}
	if int(length) != len(data) {
		logger.Warn("patch: text record length disagrees with its bytes",
			"offset", fmt.Sprintf("0x%06X", off), "length", length, "bytes", len(data))
	}

	return Record{Offset: int(off), Data: data, Kind: alloc.MarkUsed, Len: int(length)}, nil
}
