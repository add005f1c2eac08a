package tui

import (
	"strings"
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	screenWidth  = 120
	screenHeight = 40
)

// drawScreen renders p on a simulation screen and returns its text, one line
// per row
func drawScreen(t *testing.T, p tview.Primitive) string {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(screenWidth, screenHeight)

	p.SetRect(0, 0, screenWidth, screenHeight)
	p.Draw(screen)
	screen.Show()

	var b strings.Builder
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			ch, _, _, _ := screen.GetContent(x, y)
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestScreen_MainLayout(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	out := drawScreen(t, a.pages)

	assert.Contains(t, out, "Search:")
	assert.Contains(t, out, "Quarterly Invoice")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "Please find attached")
	assert.Contains(t, out, "backend: healthy")
	assert.Contains(t, out, "Auto-reply: OFF")
}

func TestScreen_ReplyOverlay(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	a.handleKey(runeKey('r'))

	out := drawScreen(t, a.pages)

	assert.Contains(t, out, "To: alice@example.com")
	assert.Contains(t, out, "Subject: Re: Quarterly Invoice")
	assert.Contains(t, out, "Thanks, received.")
	assert.Contains(t, out, "Body (locked)")
}

func TestScreen_HelpOverlay(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	a.handleKey(runeKey('?'))

	out := drawScreen(t, a.pages)

	assert.Contains(t, out, "Shortcuts")
	assert.Contains(t, out, "Toggle backend auto-reply")
}
