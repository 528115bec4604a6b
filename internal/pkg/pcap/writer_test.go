package pcap

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endorses/pcapview/internal/pkg/types"
)

func TestRowToGopacket(t *testing.T) {
	now := time.Now()
	rawData := []byte{0x01, 0x02, 0x03, 0x04}

	row := types.PacketRow{
		Timestamp: now,
		Length:    100,
		RawData:   rawData,
	}

	ci, data, err := RowToGopacket(row)
	require.NoError(t, err)
	assert.Equal(t, now, ci.Timestamp)
	assert.Equal(t, len(rawData), ci.CaptureLength)
	assert.Equal(t, 100, ci.Length)
	assert.Equal(t, rawData, data)
}

func TestRowToGopacket_NoRawData(t *testing.T) {
	row := types.PacketRow{
		Timestamp: time.Now(),
		Length:    100,
	}

	_, _, err := RowToGopacket(row)
	assert.ErrorIs(t, err, ErrNoRawData)
}

func TestRowToGopacket_ShortLength(t *testing.T) {
	rawData := []byte{0x01, 0x02, 0x03}
	row := types.PacketRow{
		Timestamp: time.Now(),
		Length:    0, // Rows from JSON files may lack a length
		RawData:   rawData,
	}

	ci, _, err := RowToGopacket(row)
	require.NoError(t, err)
	assert.Equal(t, len(rawData), ci.Length)
}

func TestSaveRows(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "filtered.pcap")

	withData := createTestPacket(t)
	withoutData := types.PacketRow{Number: 2, Protocol: "TCP", Length: 60}
	third := createTestPacket(t)
	third.Number = 3

	written, skipped, err := SaveRows(Config{FilePath: testFile}, []types.PacketRow{withData, withoutData, third})
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, 1, skipped)

	verifyPcapFile(t, testFile, layers.LinkTypeEthernet, 2)
}

func TestSaveRows_KeepsRowLinkType(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "raw.pcap")

	rows := []types.PacketRow{rawIPPacket(t, 1), {Number: 2}, rawIPPacket(t, 3)}
	written, skipped, err := SaveRows(Config{FilePath: testFile}, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, 1, skipped)

	verifyPcapFile(t, testFile, layers.LinkTypeRaw, 2)
}

func TestSaveRows_MixedLinkTypes(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "mixed.pcap")

	_, _, err := SaveRows(Config{FilePath: testFile}, []types.PacketRow{createTestPacket(t), rawIPPacket(t, 2)})
	assert.ErrorIs(t, err, ErrMixedLinkTypes)

	// An explicit link type rejects frames of another layer
	_, _, err = SaveRows(Config{FilePath: testFile, LinkType: layers.LinkTypeEthernet}, []types.PacketRow{rawIPPacket(t, 1)})
	assert.ErrorIs(t, err, ErrMixedLinkTypes)
}

func TestLinkTypeOf(t *testing.T) {
	tests := []struct {
		name    string
		rows    []types.PacketRow
		want    layers.LinkType
		wantErr bool
	}{
		{name: "no rows", want: layers.LinkTypeEthernet},
		{name: "rows without data", rows: []types.PacketRow{{Number: 1, LinkType: layers.LinkTypeRaw}}, want: layers.LinkTypeEthernet},
		{name: "unset link type", rows: []types.PacketRow{{Number: 1, RawData: []byte{1}}}, want: layers.LinkTypeEthernet},
		{name: "linux sll", rows: []types.PacketRow{{Number: 1, RawData: []byte{1}, LinkType: layers.LinkTypeLinuxSLL}}, want: layers.LinkTypeLinuxSLL},
		{
			name: "mixed",
			rows: []types.PacketRow{
				{Number: 1, RawData: []byte{1}, LinkType: layers.LinkTypeRaw},
				{Number: 2, RawData: []byte{1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LinkTypeOf(tt.rows)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMixedLinkTypes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveRows_BadPath(t *testing.T) {
	_, _, err := SaveRows(Config{FilePath: filepath.Join(t.TempDir(), "missing", "out.pcap")}, nil)
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	_, err := Create(Config{})
	assert.ErrorContains(t, err, "file path cannot be empty")

	testFile := filepath.Join(t.TempDir(), "file.pcap")
	f, err := Create(Config{FilePath: testFile})
	require.NoError(t, err)

	require.NoError(t, f.Write(createTestPacket(t)))
	require.NoError(t, f.Write(types.PacketRow{Number: 2}))
	assert.Equal(t, 1, f.Written())
	assert.Equal(t, 1, f.Skipped())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.ErrorContains(t, f.Write(createTestPacket(t)), "closed")

	verifyPcapFile(t, testFile, layers.LinkTypeEthernet, 1)
}

// Helper to create test packet
func createTestPacket(t *testing.T) types.PacketRow {
	// Create a simple UDP packet
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	ethLayer := &layers.Ethernet{
		SrcMAC:       []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       []byte{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
		EthernetType: layers.EthernetTypeIPv4,
	}

	ipLayer := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    []byte{192, 168, 1, 1},
		DstIP:    []byte{192, 168, 1, 2},
	}

	udpLayer := &layers.UDP{
		SrcPort: 53,
		DstPort: 53,
	}
	_ = udpLayer.SetNetworkLayerForChecksum(ipLayer)

	payload := gopacket.Payload([]byte("Test packet data"))

	err := gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, udpLayer, payload)
	require.NoError(t, err)

	data := append([]byte(nil), buf.Bytes()...)
	return types.PacketRow{
		Number:    1,
		Timestamp: time.Now(),
		SrcMAC:    "00:11:22:33:44:55",
		DstMAC:    "66:77:88:99:aa:bb",
		SrcIP:     "192.168.1.1",
		DstIP:     "192.168.1.2",
		Protocol:  "UDP",
		Ports:     "53 → 53",
		Length:    len(data),
		RawData:   data,
	}
}

// rawIPPacket returns a row holding a bare IPv4/UDP datagram without a link header
func rawIPPacket(t *testing.T, number int) types.PacketRow {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    []byte{10, 1, 0, 1},
		DstIP:    []byte{10, 1, 0, 2},
	}
	udp := &layers.UDP{SrcPort: 5000, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ip, udp, gopacket.Payload([]byte("raw"))))

	data := append([]byte(nil), buf.Bytes()...)
	return types.PacketRow{
		Number:    number,
		Timestamp: time.Now(),
		SrcIP:     "10.1.0.1",
		DstIP:     "10.1.0.2",
		Protocol:  "UDP",
		Length:    len(data),
		RawData:   data,
		LinkType:  layers.LinkTypeRaw,
	}
}

// Helper to verify PCAP file can be read
func verifyPcapFile(t *testing.T, filePath string, linkType layers.LinkType, expectedCount int) {
	t.Helper()
	f, err := os.Open(filePath)
	require.NoError(t, err)
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	require.NoError(t, err)
	assert.Equal(t, linkType, r.LinkType())

	count := 0
	for {
		_, _, err := r.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, expectedCount, count, "Packet count mismatch")
}
