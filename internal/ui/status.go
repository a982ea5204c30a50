package ui

import (
	"fmt"
	"time"
)

const noticeTTL = 5 * time.Second

// notice is the transient info line shown under the list. It disappears once
// it is older than noticeTTL.
type notice struct {
	text    string
	expires time.Time
}

func (n *notice) set(text string, now time.Time) {
	n.text = text
	n.expires = now.Add(noticeTTL)
}

func (n *notice) reset() {
	*n = notice{}
}

func (n *notice) current(now time.Time) string {
	if n.text != "" && !n.expires.IsZero() && now.After(n.expires) {
		n.reset()
	}
	return n.text
}

func (m *Model) currentInfo() string {
	return m.info.current(time.Now())
}

// statusLine is the row above the filter prompt. Action errors win over
// watcher errors, which are only relevant to the snapshot list.
func (m *Model) statusLine() styledLine {
	switch {
	case m.errMsg != "":
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	case m.watchErr != "" && m.screen == ScreenSnapshots:
		return styledLine{text: fmt.Sprintf("Watcher: %s", m.watchErr), style: styles.Error}
	}
	return styledLine{}
}
