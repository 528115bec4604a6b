package filtering

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/endorses/pcapview/internal/pkg/types"
)

// Filterable represents any record the predicate can evaluate
type Filterable interface {
	// StringField returns a string field value by name.
	// Returns empty string if field doesn't exist.
	StringField(f types.Field) string

	// NumericField returns a numeric field value by name.
	// Returns 0 if field doesn't exist or isn't numeric.
	NumericField(f types.Field) int
}

// Predicate is the normalized form of a Criteria used for local matching.
// String criteria are lower-cased once here, not per comparison.
type Predicate struct {
	srcMAC    string
	dstMAC    string
	srcIP     string
	dstIP     string
	protocol  string
	port      string
	lengthMin int
	lengthMax int
}

// Normalize converts raw criteria into a predicate.
// Length bounds that are missing or not numeric fall back to 0 and math.MaxInt.
func Normalize(c Criteria) Predicate {
	return Predicate{
		srcMAC:    strings.ToLower(c.SrcMAC),
		dstMAC:    strings.ToLower(c.DstMAC),
		srcIP:     strings.ToLower(c.SrcIP),
		dstIP:     strings.ToLower(c.DstIP),
		protocol:  c.Protocol,
		port:      c.Port,
		lengthMin: ParseBound(c.LengthMin, 0),
		lengthMax: ParseBound(c.LengthMax, math.MaxInt),
	}
}

// Match returns true if the record satisfies every populated criterion (AND)
func (p Predicate) Match(r Filterable) bool {
	if p.srcMAC != "" && !containsFold(r.StringField(types.FieldSrcMAC), p.srcMAC) {
		return false
	}
	if p.dstMAC != "" && !containsFold(r.StringField(types.FieldDstMAC), p.dstMAC) {
		return false
	}
	if p.srcIP != "" && !containsFold(r.StringField(types.FieldSrcIP), p.srcIP) {
		return false
	}
	if p.dstIP != "" && !containsFold(r.StringField(types.FieldDstIP), p.dstIP) {
		return false
	}
	if p.protocol != "" && r.StringField(types.FieldProtocol) != p.protocol {
		return false
	}
	if p.port != "" && !strings.Contains(r.StringField(types.FieldPorts), p.port) {
		return false
	}

	length := r.NumericField(types.FieldLength)
	return length >= p.lengthMin && length <= p.lengthMax
}

// MatchRow is Match specialised to packet rows, usable as a table predicate
func (p Predicate) MatchRow(row types.PacketRow) bool {
	return p.Match(row)
}

// IsIdentity returns true if the predicate matches every record
func (p Predicate) IsIdentity() bool {
	return p.srcMAC == "" && p.dstMAC == "" && p.srcIP == "" && p.dstIP == "" &&
		p.protocol == "" && p.port == "" && p.lengthMin <= 0 && p.lengthMax == math.MaxInt
}

// Descriptions returns human-readable descriptions of the populated criteria
func (p Predicate) Descriptions() []string {
	var out []string
	add := func(name, v string) {
		if v != "" {
			out = append(out, fmt.Sprintf("%s~%s", name, v))
		}
	}
	add("src_mac", p.srcMAC)
	add("dst_mac", p.dstMAC)
	add("src_ip", p.srcIP)
	add("dst_ip", p.dstIP)
	if p.protocol != "" {
		out = append(out, "protocol="+p.protocol)
	}
	add("port", p.port)
	if p.lengthMin > 0 {
		out = append(out, fmt.Sprintf("length>=%d", p.lengthMin))
	}
	if p.lengthMax != math.MaxInt {
		out = append(out, fmt.Sprintf("length<=%d", p.lengthMax))
	}
	return out
}

// String returns the populated criteria joined with AND
func (p Predicate) String() string {
	d := p.Descriptions()
	if len(d) == 0 {
		return "(all)"
	}
	return strings.Join(d, " AND ")
}

// containsFold reports whether needle (already lower-case) occurs in s
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// ParseBound parses the leading integer of s the way an HTML number field
// is usually read: leading whitespace and an optional sign are accepted and
// parsing stops at the first non-digit ("12abc" is 12, "1.9" is 1).
// Returns fallback when s has no leading digits.
func ParseBound(s string, fallback int) int {
	s = strings.TrimLeft(s, " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return fallback
	}

	n, err := strconv.ParseInt(s[:end], 10, 0)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if s[0] == '-' {
				return math.MinInt
			}
			return math.MaxInt
		}
		return fallback
	}
	return int(n)
}
