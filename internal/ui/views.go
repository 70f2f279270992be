package ui

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/mattn/go-runewidth"

	"packgrid/internal/model"
	"packgrid/internal/util/logx"
)

func overlay(base, overlay string) string {
	// Draw overlay on top of base by replacing lines where overlay has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := max(len(bLines), len(oLines))
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// Treat whitespace-only overlay lines as transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyToClipboard uses the system clipboard and falls back to OSC52, which
// works over ssh in many terminals.
func copyToClipboard(s string) {
	s = stripANSI(s)
	err := clipboard.WriteAll(s)
	if err == nil {
		return
	}
	logx.Debugf("clipboard: %v; falling back to OSC52", err)
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", enc)
	// Best-effort: write to /dev/tty to avoid clobbering the app's stdout buffer
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		defer f.Close()
		_, _ = f.WriteString(payload)
		return
	}
	fmt.Fprint(os.Stdout, payload)
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

// cellText renders a value for a pane cell of width w.
func cellText(v model.Value, w int) string {
	var s string
	switch v.Kind {
	case model.KindBool:
		s = "[ ]"
		if v.Bool {
			s = "[x]"
		}
	default:
		s = strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\t", " ").Replace(v.String())
	}
	return truncate(s, w)
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

// inputEditor adapts a text input to the cell editing session.
type inputEditor struct{ m *textinput.Model }

func (e inputEditor) Text() string { return e.m.Value() }
func (e inputEditor) SetText(s string) {
	e.m.SetValue(s)
	e.m.CursorEnd()
}

// areaEditor adapts the long text area to the cell editing session.
type areaEditor struct{ m *textarea.Model }

func (e areaEditor) Text() string     { return e.m.Value() }
func (e areaEditor) SetText(s string) { e.m.SetValue(s) }
