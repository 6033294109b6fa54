package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/chaincollector/internal/game"
)

// panelCache keeps the last rendered panel so static screens are not
// re-styled every frame.
type panelCache struct {
	key   string
	lines []string
	width int
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	screenChanged := c.state.Screen != c.state.prevScreen
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if screenChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	switch {
	case c.state.Screen == ScreenShutdown:
		c.drawShutdownScreen()
	case c.state.isInactive:
		c.drawInactivityScreen()
	case c.state.Screen == ScreenLaunch:
		c.drawLaunchScreen()
	default:
		c.surface.Flush(c.chunkWriter)
		c.canvas.RenderBorder(c.chunkWriter)
	}

	return c.chunkWriter.Flush()
}

// drawLaunchScreen draws the title panel.
func (c *Client) drawLaunchScreen() {
	t := c.engine.Tuning()
	body := []string{
		c.title("CHAIN COLLECTOR"),
		"",
		fmt.Sprintf("Catch the green chain blocks: %d in a row is +%d.", t.ComboThreshold, t.ComboBonus),
		"Missing one breaks the chain. White blocks are worth little.",
		fmt.Sprintf("You have %d seconds.", t.Duration),
		"",
		"←/→  A/D  H/L   move",
		"ENTER / SPACE   play",
		"Q / ESC         quit",
	}
	if c.handle != nil {
		body = append(body, "", c.faded(fmt.Sprintf("%d playing now", c.hub.Count())))
	}
	if c.state.record.Score > 0 {
		body = append(body, c.faded(fmt.Sprintf("Best: %s %d", c.state.record.Username, c.state.record.Score)))
	}
	c.drawPanel(strings.Join(body, "\n"), game.ColorNeon)
}

// drawInactivityScreen draws the idle warning.
func (c *Client) drawInactivityScreen() {
	left := c.inactivityDisconnect - time.Since(c.lastInput)
	body := strings.Join([]string{
		c.title("STILL THERE?"),
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds())),
		"Press any key to continue.",
	}, "\n")
	c.drawPanel(body, game.ColorDanger)
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen() {
	body := strings.Join([]string{
		c.title("SERVER SHUTTING DOWN"),
		"",
		"Thanks for playing.",
		fmt.Sprintf("Disconnecting in %d seconds.", int(c.state.shutdownTimer+0.999)),
	}, "\n")
	c.drawPanel(body, game.ColorDanger)
}

func (c *Client) title(s string) string {
	return c.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(string(game.ColorNeon))).Render(s)
}

func (c *Client) faded(s string) string {
	return c.renderer.NewStyle().Foreground(lipgloss.Color(string(game.ColorFaded))).Render(s)
}

// drawPanel writes a bordered panel centred on the canvas area.
func (c *Client) drawPanel(body string, border game.Color) {
	key := string(border) + body
	if c.panels.key != key {
		panel := c.renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(string(border))).
			Foreground(lipgloss.Color(string(game.ColorPaper))).
			Padding(1, 3).
			Align(lipgloss.Center).
			Render(body)
		c.panels = panelCache{
			key:   key,
			lines: strings.Split(panel, "\n"),
			width: lipgloss.Width(panel),
		}
	}

	col := max((c.canvas.TerminalWidth()-c.panels.width)/2+1, 1)
	row := max((c.canvas.TerminalHeight()-len(c.panels.lines))/2+1, 1)
	for i, line := range c.panels.lines {
		c.chunkWriter.WriteAt(col, row+i, line)
	}
}
