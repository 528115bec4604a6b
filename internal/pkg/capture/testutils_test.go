package capture

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"
)

var (
	testMACA = net.HardwareAddr{0xaa, 0xbb, 0xcc, 0x00, 0x00, 0x01}
	testMACB = net.HardwareAddr{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	testTime = time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC)
)

func serialize(t *testing.T, ls ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ls...))
	return append([]byte(nil), buf.Bytes()...)
}

func ethernet(src, dst net.HardwareAddr, et layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{SrcMAC: src, DstMAC: dst, EthernetType: et}
}

func ipv4(src, dst string, proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: proto,
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}
}

// Frames shorter than the Ethernet minimum are padded to 60 bytes on serialization

func tcpFrame(t *testing.T) []byte {
	ip := ipv4("10.0.0.1", "10.0.0.2", layers.IPProtocolTCP)
	tcp := &layers.TCP{SrcPort: 51000, DstPort: 443, Seq: 100, SYN: true, Window: 64240}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	return serialize(t, ethernet(testMACA, testMACB, layers.EthernetTypeIPv4), ip, tcp)
}

func udpFrame(t *testing.T) []byte {
	ip := ipv4("10.0.0.2", "10.0.0.1", layers.IPProtocolUDP)
	udp := &layers.UDP{SrcPort: 53, DstPort: 5353}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	return serialize(t, ethernet(testMACB, testMACA, layers.EthernetTypeIPv4), ip, udp, gopacket.Payload([]byte("hello")))
}

func icmpFrame(t *testing.T) []byte {
	icmp := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       1,
		Seq:      1,
	}
	return serialize(t,
		ethernet(testMACA, testMACB, layers.EthernetTypeIPv4),
		ipv4("10.0.0.1", "8.8.8.8", layers.IPProtocolICMPv4),
		icmp)
}

func arpFrame(t *testing.T) []byte {
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   testMACA,
		SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{10, 0, 0, 2},
	}
	broadcast := net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	return serialize(t, ethernet(testMACA, broadcast, layers.EthernetTypeARP), arp)
}

// testFrames returns TCP, UDP, ICMP and ARP frames in that order
func testFrames(t *testing.T) [][]byte {
	t.Helper()
	return [][]byte{tcpFrame(t), udpFrame(t), icmpFrame(t), arpFrame(t)}
}

func captureInfo(i int, frame []byte) gopacket.CaptureInfo {
	return gopacket.CaptureInfo{
		Timestamp:     testTime.Add(time.Duration(i) * time.Second),
		CaptureLength: len(frame),
		Length:        len(frame),
	}
}

// writePcap writes Ethernet frames to a pcap file in a temp dir
func writePcap(t *testing.T, name string, frames [][]byte) string {
	t.Helper()
	return writePcapLink(t, name, layers.LinkTypeEthernet, frames)
}

// writePcapLink writes frames of the given link type to a pcap file in a temp dir
func writePcapLink(t *testing.T, name string, linkType layers.LinkType, frames [][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, linkType))
	for i, frame := range frames {
		require.NoError(t, w.WritePacket(captureInfo(i, frame), frame))
	}
	return path
}

// writePcapng writes frames to a pcapng file in a temp dir
func writePcapng(t *testing.T, name string, frames [][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pcapgo.NewNgWriter(f, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for i, frame := range frames {
		require.NoError(t, w.WritePacket(captureInfo(i, frame), frame))
	}
	require.NoError(t, w.Flush())
	return path
}
