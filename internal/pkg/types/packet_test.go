package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPacketRow_StringField(t *testing.T) {
	row := PacketRow{
		Number:   7,
		Time:     "2024-01-01 00:00:00.000000",
		SrcMAC:   "aa:bb:cc:dd:ee:ff",
		DstMAC:   "11:22:33:44:55:66",
		SrcIP:    "10.0.0.1",
		DstIP:    "10.0.0.2",
		Protocol: "TCP",
		Ports:    "51000 → 443",
		Length:   60,
		Info:     "[SYN] Seq=1 Win=64240",
	}

	tests := []struct {
		field Field
		want  string
	}{
		{FieldNumber, "7"},
		{FieldTime, "2024-01-01 00:00:00.000000"},
		{FieldSrcMAC, "aa:bb:cc:dd:ee:ff"},
		{FieldDstMAC, "11:22:33:44:55:66"},
		{FieldSrcIP, "10.0.0.1"},
		{FieldDstIP, "10.0.0.2"},
		{FieldProtocol, "TCP"},
		{FieldPorts, "51000 → 443"},
		{FieldLength, "60"},
		{FieldInfo, "[SYN] Seq=1 Win=64240"},
		{Field("unknown"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			assert.Equal(t, tt.want, row.StringField(tt.field))
		})
	}
}

func TestPacketRow_NumericField(t *testing.T) {
	row := PacketRow{Number: 3, Length: 1500, Protocol: "UDP"}

	assert.Equal(t, 3, row.NumericField(FieldNumber))
	assert.Equal(t, 1500, row.NumericField(FieldLength))
	assert.Equal(t, 0, row.NumericField(FieldProtocol))
}

func TestPacketRow_Columns(t *testing.T) {
	row := PacketRow{Number: 1, Protocol: "ARP", Length: 42}
	cols := row.Columns()

	assert.Len(t, cols, len(ColumnHeaders))
	assert.Equal(t, "1", cols[0])
	assert.Equal(t, "ARP", cols[6])
	assert.Equal(t, "", cols[7])
	assert.Equal(t, "42", cols[8])
}

func TestFormatPorts(t *testing.T) {
	assert.Equal(t, "53 → 5353", FormatPorts("53", "5353"))
	assert.Equal(t, "", FormatPorts("", ""))
	assert.Equal(t, " → 80", FormatPorts("", "80"))
}
