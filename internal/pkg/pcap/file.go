package pcap

import (
	"fmt"
	"os"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/types"
)

// File is a capture file being written from table rows. Not safe for
// concurrent use.
type File struct {
	path     string
	linkType layers.LinkType
	f        *os.File
	w        *pcapgo.Writer
	written  int
	skipped  int
	closed   bool
}

// Create creates the file and writes its header. A zero link type means
// Ethernet.
func Create(config Config) (*File, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if config.LinkType == 0 {
		config.LinkType = layers.LinkTypeEthernet
	}
	if config.Snaplen == 0 {
		config.Snaplen = defaultSnaplen
	}

	// #nosec G304 -- output path is provided by the user
	f, err := os.Create(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create PCAP file: %w", err)
	}

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(config.Snaplen, config.LinkType); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write PCAP header: %w", err)
	}

	logger.Debug("Created PCAP file", "file", config.FilePath, "link_type", config.LinkType)
	return &File{path: config.FilePath, linkType: config.LinkType, f: f, w: w}, nil
}

// Write appends the frame of row. Rows without raw data are skipped; a
// frame of another link layer than the file is an error.
func (pf *File) Write(row types.PacketRow) error {
	if pf.closed {
		return fmt.Errorf("writer is closed")
	}

	ci, data, err := RowToGopacket(row)
	if err != nil {
		pf.skipped++
		return nil
	}
	if lt := rowLinkType(row); lt != pf.linkType {
		return fmt.Errorf("%w: %s frame in a %s file", ErrMixedLinkTypes, lt, pf.linkType)
	}

	if err := pf.w.WritePacket(ci, data); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	pf.written++
	return nil
}

// Close flushes the file to disk. Closing twice is a no-op.
func (pf *File) Close() error {
	if pf.closed {
		return nil
	}
	pf.closed = true

	if err := pf.f.Sync(); err != nil {
		logger.Warn("Failed to sync PCAP file", "error", err, "file", pf.path)
	}
	if err := pf.f.Close(); err != nil {
		return fmt.Errorf("failed to close PCAP file: %w", err)
	}

	logger.Info("Saved PCAP file", "file", pf.path, "packets", pf.written, "skipped", pf.skipped)
	return nil
}

// Written returns the number of packets written
func (pf *File) Written() int { return pf.written }

// Skipped returns the number of rows skipped for lack of raw data
func (pf *File) Skipped() int { return pf.skipped }
