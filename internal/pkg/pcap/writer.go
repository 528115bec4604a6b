// Package pcap writes packet rows back to capture files.
package pcap

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/endorses/pcapview/internal/pkg/types"
)

const defaultSnaplen = 65536

// ErrNoRawData is returned for rows that were not loaded from a capture file
var ErrNoRawData = errors.New("packet has no raw data")

// ErrMixedLinkTypes is returned when rows of different link layers would
// end up in one file
var ErrMixedLinkTypes = errors.New("packets have different link types")

// Config holds configuration for a capture file
type Config struct {
	FilePath string
	LinkType layers.LinkType // taken from the rows when zero
	Snaplen  uint32          // 65536 when zero
}

// rowLinkType returns the link layer of the row's frame. Rows that don't
// record one are Ethernet.
func rowLinkType(row types.PacketRow) layers.LinkType {
	if row.LinkType == 0 {
		return layers.LinkTypeEthernet
	}
	return row.LinkType
}

// LinkTypeOf returns the link layer shared by every row carrying raw data.
// Ethernet is returned when no row has raw data.
func LinkTypeOf(rows []types.PacketRow) (layers.LinkType, error) {
	var lt layers.LinkType
	for _, row := range rows {
		if len(row.RawData) == 0 {
			continue
		}
		got := rowLinkType(row)
		switch {
		case lt == 0:
			lt = got
		case got != lt:
			return 0, fmt.Errorf("%w: %s and %s (packet %d)", ErrMixedLinkTypes, lt, got, row.Number)
		}
	}
	if lt == 0 {
		return layers.LinkTypeEthernet, nil
	}
	return lt, nil
}

// RowToGopacket converts a PacketRow to gopacket format.
// Returns CaptureInfo and raw packet bytes suitable for PCAP writing.
func RowToGopacket(row types.PacketRow) (gopacket.CaptureInfo, []byte, error) {
	if len(row.RawData) == 0 {
		return gopacket.CaptureInfo{}, nil, ErrNoRawData
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     row.Timestamp,
		CaptureLength: len(row.RawData),
		Length:        row.Length,
	}

	// Original length can never be shorter than what was captured
	if ci.Length < ci.CaptureLength {
		ci.Length = ci.CaptureLength
	}

	return ci, row.RawData, nil
}

// SaveRows writes every row carrying raw data to a new PCAP file.
// Rows without raw data are counted as skipped. Without a link type in
// config the file gets the link type of the rows.
func SaveRows(config Config, rows []types.PacketRow) (written, skipped int, err error) {
	if config.LinkType == 0 {
		if config.LinkType, err = LinkTypeOf(rows); err != nil {
			return 0, 0, err
		}
	}

	w, err := Create(config)
	if err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = w.Close()
			return w.Written(), w.Skipped(), fmt.Errorf("packet %d: %w", row.Number, err)
		}
	}

	if err := w.Close(); err != nil {
		return w.Written(), w.Skipped(), err
	}
	return w.Written(), w.Skipped(), nil
}
