package trace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format is the on-disk form of trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // one readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat parses a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (expected auto|text|ndjson)", s)
}

// FormatEvent renders ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Seq       uint64 `json:"seq"`
	Time      string `json:"time"`
	Kind      string `json:"kind"`
	Scope     string `json:"scope"`
	Span      uint64 `json:"span"`
	Parent    uint64 `json:"parent,omitempty"`
	Name      string `json:"name"`
	Detail    string `json:"detail,omitempty"`
	ElapsedUS int64  `json:"elapsed_us,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Seq:       ev.Seq,
		Time:      ev.Time.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Span:      ev.SpanID,
		Parent:    ev.Parent,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// formatText renders "[seq] scope  > name" for begins and
// "[seq] scope  < name 1.234ms (detail)" for ends.
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%5d] %-7s ", ev.Seq, ev.Scope)
	if ev.Kind == KindBegin {
		sb.WriteString("> ")
		sb.WriteString(ev.Name)
	} else {
		fmt.Fprintf(&sb, "< %s %.3fms", ev.Name, float64(ev.Elapsed.Microseconds())/1000)
		if ev.Detail != "" {
			fmt.Fprintf(&sb, " (%s)", ev.Detail)
		}
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
