// Package filtering provides the packet filter model shared by local table
// filtering and filtered export. Both paths read one Criteria value, so the
// table and the export request always start from the same snapshot.
package filtering

// Control ids of the filter form inputs
const (
	ControlSrcMAC    = "filter-src-mac"
	ControlDstMAC    = "filter-dst-mac"
	ControlSrcIP     = "filter-src-ip"
	ControlDstIP     = "filter-dst-ip"
	ControlProtocol  = "filter-protocol"
	ControlPort      = "filter-port"
	ControlLengthMin = "filter-length-min"
	ControlLengthMax = "filter-length-max"
	ControlTimeStart = "filter-time-start"
	ControlTimeEnd   = "filter-time-end"
)

// Controls lists every filter control id in form order
var Controls = []string{
	ControlSrcMAC,
	ControlDstMAC,
	ControlSrcIP,
	ControlDstIP,
	ControlProtocol,
	ControlPort,
	ControlLengthMin,
	ControlLengthMax,
	ControlTimeStart,
	ControlTimeEnd,
}

// Criteria is the raw filter as read from the form.
// Every field is kept exactly as entered; an empty field means "no constraint".
// The JSON shape is the body of the filtered export endpoints.
type Criteria struct {
	SrcMAC    string `json:"srcMac" yaml:"src_mac,omitempty"`
	DstMAC    string `json:"dstMac" yaml:"dst_mac,omitempty"`
	SrcIP     string `json:"srcIp" yaml:"src_ip,omitempty"`
	DstIP     string `json:"dstIp" yaml:"dst_ip,omitempty"`
	Protocol  string `json:"protocol" yaml:"protocol,omitempty"`
	Port      string `json:"port" yaml:"port,omitempty"`
	LengthMin string `json:"lengthMin" yaml:"length_min,omitempty"`
	LengthMax string `json:"lengthMax" yaml:"length_max,omitempty"`
	TimeStart string `json:"timeStart" yaml:"time_start,omitempty"`
	TimeEnd   string `json:"timeEnd" yaml:"time_end,omitempty"`
}

// IsEmpty returns true if no criterion is populated
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Get returns the raw value bound to a control id
func (c Criteria) Get(control string) string {
	switch control {
	case ControlSrcMAC:
		return c.SrcMAC
	case ControlDstMAC:
		return c.DstMAC
	case ControlSrcIP:
		return c.SrcIP
	case ControlDstIP:
		return c.DstIP
	case ControlProtocol:
		return c.Protocol
	case ControlPort:
		return c.Port
	case ControlLengthMin:
		return c.LengthMin
	case ControlLengthMax:
		return c.LengthMax
	case ControlTimeStart:
		return c.TimeStart
	case ControlTimeEnd:
		return c.TimeEnd
	default:
		return ""
	}
}

// Merge returns c with every non-empty field of override applied on top
func (c Criteria) Merge(override Criteria) Criteria {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Criteria{
		SrcMAC:    pick(c.SrcMAC, override.SrcMAC),
		DstMAC:    pick(c.DstMAC, override.DstMAC),
		SrcIP:     pick(c.SrcIP, override.SrcIP),
		DstIP:     pick(c.DstIP, override.DstIP),
		Protocol:  pick(c.Protocol, override.Protocol),
		Port:      pick(c.Port, override.Port),
		LengthMin: pick(c.LengthMin, override.LengthMin),
		LengthMax: pick(c.LengthMax, override.LengthMax),
		TimeStart: pick(c.TimeStart, override.TimeStart),
		TimeEnd:   pick(c.TimeEnd, override.TimeEnd),
	}
}
