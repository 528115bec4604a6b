package capture

import (
	"fmt"
	"net"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/endorses/pcapview/internal/pkg/types"
)

// TimeLayout is the display format of PacketRow.Time
const TimeLayout = "2006-01-02 15:04:05.000000"

// PacketFields contains extracted packet fields from gopacket parsing.
type PacketFields struct {
	SrcMAC   string
	DstMAC   string
	SrcIP    string
	DstIP    string
	SrcPort  string
	DstPort  string
	Protocol string
	Info     string
}

// ExtractPacketFields extracts the table columns from a decoded packet.
// Fields that do not apply to the packet stay empty.
func ExtractPacketFields(pkt gopacket.Packet) PacketFields {
	fields := PacketFields{Protocol: "Other"}

	if ethLayer := pkt.Layer(layers.LayerTypeEthernet); ethLayer != nil {
		if eth, ok := ethLayer.(*layers.Ethernet); ok {
			fields.SrcMAC = eth.SrcMAC.String()
			fields.DstMAC = eth.DstMAC.String()
		}
	}

	if arpLayer := pkt.Layer(layers.LayerTypeARP); arpLayer != nil {
		arp, ok := arpLayer.(*layers.ARP)
		fields.Protocol = "ARP"
		if ok && arp != nil {
			fields.SrcIP = FormatIPv4Bytes(arp.SourceProtAddress)
			fields.DstIP = FormatIPv4Bytes(arp.DstProtAddress)
			fields.Info = FormatARPInfo(arp, fields.SrcIP, fields.DstIP)
		}
		return fields
	}

	netLayer := pkt.NetworkLayer()
	if netLayer == nil {
		if ethLayer := pkt.Layer(layers.LayerTypeEthernet); ethLayer != nil {
			if eth, ok := ethLayer.(*layers.Ethernet); ok {
				fields.Info = EtherTypeInfo(eth.EthernetType)
			}
		}
		if errLayer := pkt.ErrorLayer(); errLayer != nil {
			fields.Info = "Decode failed: " + errLayer.Error().Error()
		}
		return fields
	}

	switch ip := netLayer.(type) {
	case *layers.IPv4:
		fields.SrcIP = ip.SrcIP.String()
		fields.DstIP = ip.DstIP.String()
		fields.Protocol = ip.Protocol.String()
	case *layers.IPv6:
		fields.SrcIP = ip.SrcIP.String()
		fields.DstIP = ip.DstIP.String()
		fields.Protocol = ip.NextHeader.String()
	}

	switch trans := pkt.TransportLayer().(type) {
	case *layers.TCP:
		fields.Protocol = "TCP"
		fields.SrcPort = strconv.Itoa(int(trans.SrcPort))
		fields.DstPort = strconv.Itoa(int(trans.DstPort))
		fields.Info = fmt.Sprintf("[%s] Seq=%d Win=%d", FormatTCPFlags(trans), trans.Seq, trans.Window)
		return fields
	case *layers.UDP:
		fields.Protocol = "UDP"
		fields.SrcPort = strconv.Itoa(int(trans.SrcPort))
		fields.DstPort = strconv.Itoa(int(trans.DstPort))
		fields.Info = fmt.Sprintf("Len=%d", len(trans.Payload))
		return fields
	}

	if icmpLayer := pkt.Layer(layers.LayerTypeICMPv4); icmpLayer != nil {
		fields.Protocol = "ICMP"
		if icmp, ok := icmpLayer.(*layers.ICMPv4); ok {
			fields.Info = icmp.TypeCode.String()
		}
	} else if icmp6Layer := pkt.Layer(layers.LayerTypeICMPv6); icmp6Layer != nil {
		fields.Protocol = "ICMPv6"
		if icmp6, ok := icmp6Layer.(*layers.ICMPv6); ok {
			fields.Info = icmp6.TypeCode.String()
		}
	}

	return fields
}

// FormatTCPFlags returns the set TCP flags separated by commas
func FormatTCPFlags(tcp *layers.TCP) string {
	flags := ""
	if tcp.SYN {
		flags += "SYN, "
	}
	if tcp.ACK {
		flags += "ACK, "
	}
	if tcp.FIN {
		flags += "FIN, "
	}
	if tcp.RST {
		flags += "RST, "
	}
	if tcp.PSH {
		flags += "PSH, "
	}
	if tcp.URG {
		flags += "URG, "
	}
	if flags == "" {
		return "NONE"
	}
	return flags[:len(flags)-2]
}

// EtherTypeInfo describes a non-IP frame
func EtherTypeInfo(etherType layers.EthernetType) string {
	switch etherType {
	case layers.EthernetTypeLLC:
		return "Logical Link Control"
	case layers.EthernetTypeDot1Q:
		return "VLAN tag"
	case layers.EthernetTypeCiscoDiscovery:
		return "Cisco Discovery Protocol"
	case layers.EthernetTypeLinkLayerDiscovery:
		return "Link Layer Discovery Protocol"
	case 0x888E: // 802.1X (EAP)
		return "Port-based authentication"
	default:
		return fmt.Sprintf("EtherType 0x%04x", uint16(etherType))
	}
}

// FormatIPv4Bytes formats 4 bytes as an IPv4 address string.
func FormatIPv4Bytes(addr []byte) string {
	if len(addr) != 4 {
		return ""
	}
	return net.IP(addr).String()
}

// FormatARPInfo generates info string for ARP packet.
func FormatARPInfo(arp *layers.ARP, srcIP, dstIP string) string {
	switch arp.Operation {
	case layers.ARPRequest:
		return "Who has " + dstIP + "? Tell " + srcIP
	case layers.ARPReply:
		return srcIP + " is at " + net.HardwareAddr(arp.SourceHwAddress).String()
	default:
		return fmt.Sprintf("Operation %d", arp.Operation)
	}
}

// FieldsToRow builds the table row for the packet with the given 1-based number
func FieldsToRow(number int, fields PacketFields, pkt gopacket.Packet) types.PacketRow {
	md := pkt.Metadata()
	length := md.Length
	if length == 0 {
		length = md.CaptureLength
	}
	if length == 0 {
		length = len(pkt.Data())
	}

	return types.PacketRow{
		Number:    number,
		Time:      md.Timestamp.UTC().Format(TimeLayout),
		Timestamp: md.Timestamp,
		SrcMAC:    fields.SrcMAC,
		DstMAC:    fields.DstMAC,
		SrcIP:     fields.SrcIP,
		DstIP:     fields.DstIP,
		Protocol:  fields.Protocol,
		Ports:     types.FormatPorts(fields.SrcPort, fields.DstPort),
		Length:    length,
		Info:      fields.Info,
	}
}
