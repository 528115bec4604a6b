// Package capture loads packet rows from capture files (pcap, pcapng) and
// from JSON row files.
package capture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/types"
)

// AllowedExtensions are the accepted capture file extensions
var AllowedExtensions = []string{".pcap", ".pcapng", ".cap"}

// ErrUnsupportedFile is returned for a file that is neither a capture nor a row file
var ErrUnsupportedFile = errors.New("unsupported file type")

// pcapng section header block type
var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// AllowedFile returns true if name has a capture file extension
func AllowedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// LoadOptions control how packets are turned into rows
type LoadOptions struct {
	// KeepRawData stores the frame bytes in each row (needed to save a
	// filtered pcap)
	KeepRawData bool

	// Limit stops after this many packets (0 means no limit)
	Limit int
}

// packetReader is satisfied by both pcapgo.Reader and pcapgo.NgReader
type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// LoadRows loads rows from path: JSON row files by their .json extension,
// capture files by AllowedExtensions.
func LoadRows(ctx context.Context, path string, opts LoadOptions) ([]types.PacketRow, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadRowsJSON(path)
	}
	return LoadFile(ctx, path, opts)
}

// LoadFile reads a capture file
func LoadFile(ctx context.Context, path string, opts LoadOptions) ([]types.PacketRow, error) {
	if !AllowedFile(path) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFile, filepath.Base(path), strings.Join(AllowedExtensions, ", "))
	}

	// #nosec G304 -- path is provided by the user on the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	rows, err := Load(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger.Debug("Loaded capture file", "path", path, "packets", len(rows))
	return rows, nil
}

// Load reads a pcap or pcapng stream; the format is detected from the
// leading magic bytes.
func Load(ctx context.Context, r io.Reader, opts LoadOptions) ([]types.PacketRow, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	var reader packetReader
	if bytes.Equal(magic, pcapngMagic) {
		reader, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		reader, err = pcapgo.NewReader(br)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid capture file: %w", err)
	}

	return readRows(ctx, reader, opts)
}

func readRows(ctx context.Context, reader packetReader, opts LoadOptions) ([]types.PacketRow, error) {
	linkType := reader.LinkType()
	rows := make([]types.PacketRow, 0, 1024)

	for {
		if opts.Limit > 0 && len(rows) >= opts.Limit {
			break
		}
		if len(rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A truncated trailing record ends the file
			if errors.Is(err, io.ErrUnexpectedEOF) {
				logger.Warn("Capture file truncated", "packets_read", len(rows))
				break
			}
			return nil, fmt.Errorf("packet %d: %w", len(rows)+1, err)
		}

		rows = append(rows, DecodeRow(len(rows)+1, data, ci, linkType, opts.KeepRawData))
	}

	return rows, nil
}

// DecodeRow decodes one frame into a table row
func DecodeRow(number int, data []byte, ci gopacket.CaptureInfo, linkType layers.LinkType, keepRaw bool) types.PacketRow {
	pkt := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	pkt.Metadata().CaptureInfo = ci

	row := FieldsToRow(number, ExtractPacketFields(pkt), pkt)
	if keepRaw {
		row.RawData = append([]byte(nil), data...)
		row.LinkType = linkType
	}
	return row
}

// LoadRowsJSON reads a JSON array of rows, the same data a page embeds
// for its packet table.
func LoadRowsJSON(path string) ([]types.PacketRow, error) {
	// #nosec G304 -- path is provided by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read row file: %w", err)
	}

	var rows []types.PacketRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse row file %s: %w", path, err)
	}
	if rows == nil {
		rows = []types.PacketRow{}
	}
	return rows, nil
}
