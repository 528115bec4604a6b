package types

import (
	"strconv"
	"time"

	"github.com/google/gopacket/layers"
)

// Field names a filterable column of a packet row.
// Filtering goes through these names rather than display column positions,
// so reordering the rendered table cannot change which data a criterion reads.
type Field string

const (
	FieldNumber   Field = "number"
	FieldTime     Field = "time"
	FieldSrcMAC   Field = "src_mac"
	FieldDstMAC   Field = "dst_mac"
	FieldSrcIP    Field = "src_ip"
	FieldDstIP    Field = "dst_ip"
	FieldProtocol Field = "protocol"
	FieldPorts    Field = "ports"
	FieldLength   Field = "length"
	FieldInfo     Field = "info"
)

// PacketRow represents one rendered row of the packet table.
// Rows are produced by the capture loader or decoded from injected page data
// and are never mutated by filtering.
type PacketRow struct {
	Number    int       `json:"number"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
	SrcMAC    string    `json:"src_mac"`
	DstMAC    string    `json:"dst_mac"`
	SrcIP     string    `json:"src_ip"`
	DstIP     string    `json:"dst_ip"`
	Protocol  string    `json:"protocol"`
	Ports     string    `json:"ports"` // "sport → dport" for TCP/UDP, empty otherwise
	Length    int       `json:"length"`
	Info      string    `json:"info,omitempty"`
	RawData   []byte    `json:"-"` // Raw frame bytes, only set when loaded from a capture file

	// LinkType is the link layer of RawData
	LinkType layers.LinkType `json:"-"`
}

// StringField returns a string field value by name.
// Returns empty string if the field doesn't exist.
func (r PacketRow) StringField(f Field) string {
	switch f {
	case FieldNumber:
		return strconv.Itoa(r.Number)
	case FieldTime:
		return r.Time
	case FieldSrcMAC:
		return r.SrcMAC
	case FieldDstMAC:
		return r.DstMAC
	case FieldSrcIP:
		return r.SrcIP
	case FieldDstIP:
		return r.DstIP
	case FieldProtocol:
		return r.Protocol
	case FieldPorts:
		return r.Ports
	case FieldLength:
		return strconv.Itoa(r.Length)
	case FieldInfo:
		return r.Info
	default:
		return ""
	}
}

// NumericField returns a numeric field value by name.
// Returns 0 if the field doesn't exist or isn't numeric.
func (r PacketRow) NumericField(f Field) int {
	switch f {
	case FieldNumber:
		return r.Number
	case FieldLength:
		return r.Length
	default:
		return 0
	}
}

// Columns returns the display values in rendered column order.
func (r PacketRow) Columns() []string {
	return []string{
		strconv.Itoa(r.Number),
		r.Time,
		r.SrcMAC,
		r.DstMAC,
		r.SrcIP,
		r.DstIP,
		r.Protocol,
		r.Ports,
		strconv.Itoa(r.Length),
	}
}

// ColumnHeaders matches the order returned by Columns.
var ColumnHeaders = []string{"No.", "Time", "Src MAC", "Dst MAC", "Source", "Destination", "Protocol", "Ports", "Length"}

// FormatPorts builds the composite ports display string.
func FormatPorts(srcPort, dstPort string) string {
	if srcPort == "" && dstPort == "" {
		return ""
	}
	return srcPort + " → " + dstPort
}
