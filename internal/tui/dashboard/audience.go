package dashboard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
)

// audience is the projector view: event header, join code and the
// synthesized questions moderators approved.
type audience struct {
	*base

	event    *model.Event
	eventErr string

	qr string

	questions []model.SynthesizedQuestion
	loaded    bool
	listErr   string
}

func newAudience(b *base) *audience { return &audience{base: b} }

func (a *audience) Init() tea.Cmd {
	c, id := a.deps.Client, a.sessionID()
	watch(a.base, feedAudience, "/api/audience/questions/synthesized/"+id, a.deps.Polling.Synthesized(),
		func(ctx context.Context) ([]model.SynthesizedQuestion, error) {
			return c.AudienceSynthesized(ctx, id)
		})
	a.group.Start()
	return tea.Batch(
		tuimsg.LoadEvent(a.ctx, a.scope, c, id),
		tuimsg.LoadQR(a.ctx, a.scope, c, id),
	)
}

func (a *audience) Modes() []keymap.Mode { return []keymap.Mode{keymap.ModeGlobal} }

func (a *audience) Capturing() bool { return false }

func (a *audience) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.EventMsg:
		if msg.Err != nil {
			a.eventErr = "Could not load event details."
			return nil
		}
		a.event, a.eventErr = msg.Event, ""
	case tuimsg.QRMsg:
		if msg.Err != nil {
			a.logger.Debug("qr failed", "error", msg.Err.Error())
			return nil
		}
		a.qr = msg.Art
	case tuimsg.FeedMsg[model.SynthesizedQuestion]:
		if msg.Err != nil {
			if !a.fail("/api/audience/questions/synthesized", msg.Err) {
				a.listErr = "Could not load approved questions."
			}
			return nil
		}
		a.questions, a.loaded, a.listErr = msg.Items, true, ""
	}
	return nil
}

func (a *audience) View(width, height int) string {
	switch {
	case a.unauthorized:
		return unauthorizedView()
	case a.eventErr != "" && a.event == nil:
		return styles.ErrorMsg.Render(a.eventErr)
	case a.event == nil:
		return styles.Muted.Render("Loading event details...")
	}

	var left strings.Builder
	left.WriteString(styles.Title.Render(a.event.DisplayTitle()))
	left.WriteString("\n")
	if a.event.Description != "" {
		left.WriteString(styles.Subtitle.Render(a.event.Description))
		left.WriteString("\n")
	}
	left.WriteString("\n")
	left.WriteString(styles.SectionTitle.Render("Selected Questions"))
	left.WriteString("\n")
	left.WriteString(styles.Muted.Render("AI-curated questions approved by moderators"))
	left.WriteString("\n\n")
	switch {
	case a.listErr != "":
		left.WriteString(styles.ErrorMsg.Render(a.listErr))
	case !a.loaded:
		left.WriteString(styles.Muted.Render("Loading questions..."))
	case len(a.questions) == 0:
		left.WriteString(styles.Muted.Render("No approved questions yet."))
		left.WriteString("\n")
		left.WriteString(styles.Muted.Render("Scan the QR code to submit your questions!"))
	default:
		textWidth := max(width-50, 30)
		for i, q := range a.questions {
			if i > 0 {
				left.WriteString("\n")
			}
			left.WriteString(styles.Card.Width(textWidth).Render(styles.Text.Render(q.Text)))
		}
	}

	if a.qr == "" || width < 80 {
		return left.String()
	}
	right := lipgloss.JoinVertical(lipgloss.Center,
		styles.SectionTitle.Render("Join the conversation!"),
		a.qr,
		styles.Muted.Render("Scan to submit your questions"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "   ", right)
}
