// Package export sends the current filter criteria to the analysis server to
// produce a filtered artifact (PDF report or CSV), and drives the state of the
// control that triggered it.
package export

import (
	"fmt"
	"net/url"
)

// Kind identifies which artifact an export produces
type Kind string

const (
	KindReport Kind = "report"
	KindCSV    Kind = "csv"
)

// Kinds lists every export kind
var Kinds = []Kind{KindReport, KindCSV}

// Valid returns true for a known kind
func (k Kind) Valid() bool {
	return k == KindReport || k == KindCSV
}

// Path returns the endpoint path for the given analysis target
func (k Kind) Path(targetID string) string {
	switch k {
	case KindCSV:
		return "/export_filtered_csv/" + url.PathEscape(targetID)
	default:
		return "/generate_filtered_report/" + url.PathEscape(targetID)
	}
}

// URLField is the response field carrying the artifact location
func (k Kind) URLField() string {
	if k == KindCSV {
		return "csv_url"
	}
	return "report_url"
}

// IdleLabel is the control label while no export is running
func (k Kind) IdleLabel() string {
	if k == KindCSV {
		return "Filtrowany CSV"
	}
	return "Raport z filtrów"
}

// BusyLabel is the control label while the export is in flight
func (k Kind) BusyLabel() string {
	if k == KindCSV {
		return "Eksportowanie CSV..."
	}
	return "Generowanie raportu..."
}

// action names the operation in user-facing messages (genitive form)
func (k Kind) action() string {
	if k == KindCSV {
		return "eksportu CSV"
	}
	return "generowania raportu"
}

// TransportMessage is shown when the request could not complete
func (k Kind) TransportMessage() string {
	return fmt.Sprintf("Wystąpił błąd podczas %s. Szczegóły w logach.", k.action())
}

// ApplicationMessage is shown when the server rejected the export without a reason
func (k Kind) ApplicationMessage() string {
	return fmt.Sprintf("Błąd %s.", k.action())
}

// MalformedMessage is shown when a successful response lacks the artifact location
func (k Kind) MalformedMessage() string {
	return fmt.Sprintf("Nieprawidłowa odpowiedź serwera podczas %s.", k.action())
}

// ExportedMessage reports how many packets a CSV export contains
func ExportedMessage(totalPackets int) string {
	return fmt.Sprintf("Wyeksportowano %d pakietów do pliku CSV.", totalPackets)
}
