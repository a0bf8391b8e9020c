package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/api"
	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/feed"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/moderation"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
)

type modPane int

const (
	panePending modPane = iota
	paneApproved
	paneSynthesized
	paneChat
	paneLinks
	modPaneCount
)

var modPaneNames = [modPaneCount]string{"Pending", "Approved", "Synthesized", "Chat", "Links"}

type modForm int

const (
	modFormNone modForm = iota
	modFormEdit
	modFormBan
	modFormLink
)

// Moderator action names.
const (
	actApprove     = "approve"
	actDelete      = "delete"
	actFlag        = "flag"
	actExclude     = "exclude"
	actMerge       = "merge"
	actSynthesize  = "synthesize"
	actSynthOK     = "synth_approve"
	actSynthReject = "synth_reject"
	actSynthEdit   = "synth_edit"
	actChatDelete  = "chat_delete"
	actMute        = "mute"
	actExpel       = "expel"
	actBan         = "ban"
	actUnban       = "unban"
	actLink        = "link"
	actClose       = "close"
)

// moderator is the question queue of one event with its synthesized
// questions, chat and links. Without a session it lists the events the
// user moderates.
type moderator struct {
	*base
	embedded bool

	events *picker

	checking  bool
	denied    error
	accessErr string

	queue    *moderation.Queue
	qLoaded  bool
	qErr     string
	queueSrc feed.Source

	synth       []model.SynthesizedQuestion
	synthLoaded bool
	synthErr    string
	synthSrc    feed.Source

	chat    chatList
	chatSrc feed.Source

	links       []model.Link
	linksLoaded bool
	linksErr    string
	linksSrc    feed.Source

	pane   modPane
	cursor [modPaneCount]int
	notice notice

	form       *form
	formKind   modForm
	formTarget string

	// excluding holds the value each in-flight exclusion toggle asked for.
	excluding    map[model.ID]bool
	synthesizing bool
	// merging holds the ids of the merge in flight, nil when none is.
	merging []model.ID
}

func newModerator(b *base, embedded bool) *moderator {
	return &moderator{
		base:      b,
		embedded:  embedded,
		events:    &picker{title: "Your Events", target: view.RouteModerator},
		queue:     moderation.NewQueue(),
		excluding: make(map[model.ID]bool),
	}
}

func (m *moderator) Init() tea.Cmd {
	if m.sessionID() == "" {
		watch(m.base, feedEvents, "/api/mod/events", m.deps.Polling.Events(), m.deps.Client.ModEvents)
		m.group.Start()
		return nil
	}
	if m.embedded || m.isAdmin() {
		m.startFeeds()
		return nil
	}
	user := m.userID()
	if user == "" {
		m.denied = errors.ErrNotModerator
		return nil
	}
	m.checking = true
	return tuimsg.LoadAccess(m.ctx, m.scope, m.deps.Client, user)
}

func (m *moderator) isAdmin() bool {
	id := m.identity()
	return id != nil && id.Role == model.RoleAdmin
}

// startFeeds subscribes to the protected lists. It runs only once access is
// confirmed.
func (m *moderator) startFeeds() {
	c, id, p := m.deps.Client, m.sessionID(), m.deps.Polling
	m.queueSrc = watch(m.base, feedModQueue, "/api/mod/questions/"+id, p.Moderator(),
		func(ctx context.Context) ([]model.Question, error) { return c.ModQuestions(ctx, id) })
	m.synthSrc = watch(m.base, feedSynthesized, "/api/mod/questions/synthesized/"+id, p.Synthesized(),
		func(ctx context.Context) ([]model.SynthesizedQuestion, error) { return c.Synthesized(ctx, id) })
	m.chatSrc = watch(m.base, feedChat, "/api/chat/"+id, p.Chat(),
		func(ctx context.Context) ([]model.ChatMessage, error) { return c.Chat(ctx, id) })
	m.linksSrc = watch(m.base, feedLinks, "/api/mod/links/"+id, p.Links(),
		func(ctx context.Context) ([]model.Link, error) { return c.Links(ctx, id) })
	m.group.Start()
}

func (m *moderator) Modes() []keymap.Mode {
	switch {
	case m.form != nil:
		return []keymap.Mode{keymap.ModeForm}
	case m.sessionID() == "":
		return []keymap.Mode{keymap.ModePicker, keymap.ModeGlobal}
	case !m.ready():
		return []keymap.Mode{keymap.ModeGlobal}
	}
	return []keymap.Mode{keymap.ModeModerator, keymap.ModeGlobal}
}

func (m *moderator) Capturing() bool { return m.form != nil }

// ready reports whether the queue is live.
func (m *moderator) ready() bool {
	return !m.checking && m.denied == nil && m.accessErr == "" && !m.unauthorized
}

func (m *moderator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.AccessMsg:
		return m.handleAccess(msg)
	case tuimsg.FeedMsg[model.Event]:
		if msg.Err != nil && m.fail("/api/mod/events", msg.Err) {
			return nil
		}
		m.events.apply(msg.Items, msg.Err)
	case tuimsg.FeedMsg[model.Question]:
		if msg.Err != nil {
			if !m.fail("/api/mod/questions", msg.Err) {
				m.qErr = "Failed to load questions."
			}
			return nil
		}
		m.queue.Apply(msg.Items)
		m.qLoaded, m.qErr = true, ""
		m.clampCursors()
	case tuimsg.FeedMsg[model.SynthesizedQuestion]:
		if msg.Err != nil {
			if !m.fail("/api/mod/questions/synthesized", msg.Err) {
				m.synthErr = "Could not load synthesized questions."
			}
			return nil
		}
		m.synth, m.synthLoaded, m.synthErr = msg.Items, true, ""
		m.clampCursors()
	case tuimsg.FeedMsg[model.ChatMessage]:
		if msg.Err != nil && m.fail("/api/chat", msg.Err) {
			return nil
		}
		m.chat.apply(msg.Items, msg.Err)
	case tuimsg.FeedMsg[model.Link]:
		if msg.Err != nil {
			if !m.fail("/api/mod/links", msg.Err) {
				m.linksErr = "Could not load links."
			}
			return nil
		}
		m.links, m.linksLoaded, m.linksErr = msg.Items, true, ""
		m.clampCursors()
	case tuimsg.ActionMsg:
		return m.handleAction(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *moderator) handleAccess(msg tuimsg.AccessMsg) tea.Cmd {
	m.checking = false
	switch {
	case msg.Err != nil:
		if !m.fail("/api/user/events", msg.Err) {
			m.accessErr = "Could not verify permissions."
		}
	case msg.Events == nil || !msg.Events.Moderates(m.sessionID()):
		m.denied = errors.ErrNotModerator
		m.logger.Info("moderator access denied")
	default:
		m.startFeeds()
	}
	return nil
}

func (m *moderator) clampCursors() {
	m.cursor[panePending] = clampCursor(m.cursor[panePending], len(m.queue.Pending()))
	m.cursor[paneApproved] = clampCursor(m.cursor[paneApproved], len(m.queue.Approved()))
	m.cursor[paneSynthesized] = clampCursor(m.cursor[paneSynthesized], len(m.synth))
	m.cursor[paneLinks] = clampCursor(m.cursor[paneLinks], len(m.links))
}

func (m *moderator) paneLen(p modPane) int {
	switch p {
	case panePending:
		return len(m.queue.Pending())
	case paneApproved:
		return len(m.queue.Approved())
	case paneSynthesized:
		return len(m.synth)
	case paneChat:
		return len(m.chat.messages)
	default:
		return len(m.links)
	}
}

func (m *moderator) currentQuestion() (model.Question, bool) {
	var list []model.Question
	switch m.pane {
	case panePending:
		list = m.queue.Pending()
	case paneApproved:
		list = m.queue.Approved()
	default:
		return model.Question{}, false
	}
	if len(list) == 0 {
		return model.Question{}, false
	}
	return list[clampCursor(m.cursor[m.pane], len(list))], true
}

func (m *moderator) currentSynth() (model.SynthesizedQuestion, bool) {
	if m.pane != paneSynthesized || len(m.synth) == 0 {
		return model.SynthesizedQuestion{}, false
	}
	return m.synth[m.cursor[paneSynthesized]], true
}

func (m *moderator) currentMessage() (model.ChatMessage, bool) {
	if m.pane != paneChat {
		return model.ChatMessage{}, false
	}
	return m.chat.selected()
}

func (m *moderator) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.sessionID() == "" {
		return m.events.update(keyFor(msg, keymap.ModePicker))
	}
	if !m.ready() {
		return nil
	}

	switch cmd := keyFor(msg, keymap.ModeModerator); cmd {
	case keymap.CmdNextPane:
		m.pane = (m.pane + 1) % modPaneCount
	case keymap.CmdPrevPane:
		m.pane = (m.pane + modPaneCount - 1) % modPaneCount
	case keymap.CmdUp:
		m.move(-1)
	case keymap.CmdDown:
		m.move(1)
	case keymap.CmdApprove:
		if s, ok := m.currentSynth(); ok {
			return m.disposeSynth(s, api.SynthApprove, actSynthOK)
		}
		return m.moderate(api.ActionApprove)
	case keymap.CmdDelete:
		if cm, ok := m.currentMessage(); ok {
			return m.do(actChatDelete, cm.ID.String(), func(ctx context.Context) error {
				return m.deps.Client.DeleteChatMessage(ctx, cm.ID)
			})
		}
		return m.moderate(api.ActionDelete)
	case keymap.CmdFlag:
		return m.moderate(api.ActionFlag)
	case keymap.CmdReject:
		if s, ok := m.currentSynth(); ok {
			return m.disposeSynth(s, api.SynthReject, actSynthReject)
		}
	case keymap.CmdEdit:
		if s, ok := m.currentSynth(); ok {
			return m.openForm(modFormEdit, s.ID.String(), newForm("Edit synthesized question").text("Text:", "").set(0, s.Text))
		}
	case keymap.CmdSelect:
		if q, ok := m.currentQuestion(); ok {
			m.queue.Toggle(q.ID)
		}
	case keymap.CmdMerge:
		return m.merge()
	case keymap.CmdSynthesize:
		return m.synthesize()
	case keymap.CmdExcludeAI:
		return m.toggleExclude()
	case keymap.CmdMute, keymap.CmdExpel:
		cm, ok := m.currentMessage()
		if !ok {
			return nil
		}
		act, sanction := actMute, api.SanctionMute
		if cmd == keymap.CmdExpel {
			act, sanction = actExpel, api.SanctionExpel
		}
		id := m.sessionID()
		return m.do(act, cm.UserID, func(ctx context.Context) error {
			return m.deps.Client.SanctionChatUser(ctx, id, cm.UserID, sanction)
		})
	case keymap.CmdBan:
		if cm, ok := m.currentMessage(); ok {
			return m.openForm(modFormBan, cm.UserID, newBanForm(cm.UserID))
		}
	case keymap.CmdUnban:
		if cm, ok := m.currentMessage(); ok {
			return m.do(actUnban, cm.UserID, func(ctx context.Context) error {
				return m.deps.Client.ModUnbanUser(ctx, cm.UserID)
			})
		}
	case keymap.CmdNew:
		m.pane = paneLinks
		return m.openForm(modFormLink, "", newForm("Publish a link").text("Title:", "Slides").text("URL:", "https://"))
	case keymap.CmdCloseEvent:
		id := m.sessionID()
		return m.do(actClose, id, func(ctx context.Context) error {
			return m.deps.Client.CloseEvent(ctx, id)
		})
	case keymap.CmdRefresh:
		m.refresh()
	}
	return nil
}

func (m *moderator) move(delta int) {
	if m.pane == paneChat {
		m.chat.cursor = moveCursor(m.chat.cursor, delta, len(m.chat.messages))
		return
	}
	m.cursor[m.pane] = moveCursor(m.cursor[m.pane], delta, m.paneLen(m.pane))
}

func (m *moderator) refresh() {
	for _, src := range []feed.Source{m.queueSrc, m.synthSrc, m.chatSrc, m.linksSrc} {
		if src != nil {
			src.Refresh()
		}
	}
}

func (m *moderator) do(action, target string, fn func(context.Context) error) tea.Cmd {
	m.notice.clear()
	return tuimsg.Do(m.ctx, m.scope, action, target, fn)
}

// moderate removes the current question locally and sends the action; the
// next poll restores it if the backend disagrees.
func (m *moderator) moderate(action api.ModAction) tea.Cmd {
	q, ok := m.currentQuestion()
	if !ok {
		return nil
	}
	m.queue.Remove(q.ID)
	m.clampCursors()
	return m.do(string(action), q.ID.String(), func(ctx context.Context) error {
		return m.deps.Client.ModerateQuestion(ctx, q.ID, action)
	})
}

func (m *moderator) merge() tea.Cmd {
	if m.merging != nil {
		return nil
	}
	if !m.queue.CanMerge() {
		m.notice.failure(fmt.Sprintf("Select at least %d questions to merge.", moderation.MinMerge))
		return nil
	}
	ids := m.queue.Selected()
	m.merging = ids
	return m.do(actMerge, "", func(ctx context.Context) error {
		return m.deps.Client.Merge(ctx, ids)
	})
}

func (m *moderator) synthesize() tea.Cmd {
	if m.synthesizing {
		return nil
	}
	m.synthesizing = true
	m.notice.clear()
	id := m.sessionID()
	return tuimsg.Call(m.ctx, m.scope, actSynthesize, id, func(ctx context.Context) (string, error) {
		res, err := m.deps.Client.Synthesize(ctx, id)
		return res.Summary, err
	})
}

func (m *moderator) toggleExclude() tea.Cmd {
	q, ok := m.currentQuestion()
	if !ok {
		return nil
	}
	want := !q.ExcludeFromAI
	m.excluding[q.ID] = want
	return m.do(actExclude, q.ID.String(), func(ctx context.Context) error {
		return m.deps.Client.SetExcludeFromAI(ctx, q.ID, want)
	})
}

func (m *moderator) disposeSynth(s model.SynthesizedQuestion, action api.SynthAction, name string) tea.Cmd {
	for i, item := range m.synth {
		if item.ID == s.ID {
			m.synth = append(m.synth[:i:i], m.synth[i+1:]...)
			break
		}
	}
	m.clampCursors()
	return m.do(name, s.ID.String(), func(ctx context.Context) error {
		return m.deps.Client.DisposeSynthesized(ctx, s.ID, action, "")
	})
}

func (m *moderator) openForm(kind modForm, target string, f *form) tea.Cmd {
	m.form, m.formKind, m.formTarget = f, kind, target
	m.notice.clear()
	return f.start()
}

func (m *moderator) updateForm(msg tea.KeyMsg) tea.Cmd {
	res, cmd := m.form.update(msg)
	switch res {
	case formCancel:
		m.form = nil
		return nil
	case formSubmit:
		return m.submitForm()
	}
	return cmd
}

func (m *moderator) submitForm() tea.Cmd {
	c, target := m.deps.Client, m.formTarget
	switch m.formKind {
	case modFormEdit:
		text := m.form.value(0)
		if text == "" {
			m.form.err = "Question text cannot be empty."
			return nil
		}
		return m.do(actSynthEdit, target, func(ctx context.Context) error {
			return c.DisposeSynthesized(ctx, model.ID(target), api.SynthEdit, text)
		})
	case modFormBan:
		ban, err := banFrom(m.form)
		if err != nil {
			m.form.err = actionError(err, "Invalid ban.")
			return nil
		}
		return m.do(actBan, target, func(ctx context.Context) error {
			return c.ModBanUser(ctx, target, ban)
		})
	case modFormLink:
		link := model.Link{Title: m.form.value(0), URL: m.form.value(1)}
		if link.URL == "" || link.URL == "https://" {
			m.form.err = "Link URL is required."
			return nil
		}
		id := m.sessionID()
		return m.do(actLink, id, func(ctx context.Context) error {
			return c.PublishLink(ctx, id, link)
		})
	}
	return nil
}

var modSuccess = map[string]string{
	actChatDelete: "Message deleted.",
	actMute:       "User muted.",
	actExpel:      "User expelled.",
	actBan:        "User banned.",
	actUnban:      "User unbanned.",
	actLink:       "Link published.",
	actClose:      "Event closed.",
	actSynthEdit:  "Synthesized question updated.",
	actMerge:      "Questions merged.",
}

func (m *moderator) handleAction(msg tuimsg.ActionMsg) tea.Cmd {
	if msg.Err != nil {
		if m.fail("/api/mod/"+msg.Action, msg.Err) {
			return nil
		}
		m.logger.Failure("moderator action failed", msg.Err, "action", msg.Action, "target", msg.Target)
	}

	switch msg.Action {
	case actApprove, actDelete, actFlag:
		if msg.Err != nil {
			m.notice.failure(actionError(msg.Err, "Action failed."))
			if m.queueSrc != nil {
				m.queueSrc.Refresh()
			}
		}
	case actExclude:
		id := model.ID(msg.Target)
		want := m.excluding[id]
		delete(m.excluding, id)
		if msg.Err != nil {
			m.notice.failure(actionError(msg.Err, "Action failed."))
			return nil
		}
		m.queue.SetExcluded(id, want)
	case actMerge:
		merged := m.merging
		m.merging = nil
		if msg.Err != nil {
			m.notice.failure(actionError(msg.Err, "Merge failed."))
			return nil
		}
		m.queue.MergeSucceeded(merged)
		m.clampCursors()
		m.notice.success(modSuccess[actMerge])
	case actSynthesize:
		m.synthesizing = false
		if msg.Err != nil {
			m.notice.failure(actionError(msg.Err, "Synthesis failed."))
			return nil
		}
		summary := msg.Result
		if summary == "" {
			summary = "Synthesis complete."
		}
		m.notice.success(summary)
		if m.synthSrc != nil {
			m.synthSrc.Refresh()
		}
	case actSynthOK, actSynthReject, actSynthEdit:
		if msg.Err != nil {
			m.notice.failure(actionError(msg.Err, "Action failed."))
		} else if msg.Action == actSynthEdit {
			m.form = nil
			m.notice.success(modSuccess[actSynthEdit])
		}
		if m.synthSrc != nil {
			m.synthSrc.Refresh()
		}
	case actLink:
		if msg.Err != nil {
			if m.form != nil {
				m.form.err = actionError(msg.Err, "Failed to publish link.")
			}
			return nil
		}
		m.form = nil
		m.notice.success(modSuccess[actLink])
		if m.linksSrc != nil {
			m.linksSrc.Refresh()
		}
	default:
		if msg.Err != nil {
			if m.form != nil {
				m.form.err = actionError(msg.Err, "Action failed.")
			} else {
				m.notice.failure(actionError(msg.Err, "Action failed."))
			}
			return nil
		}
		if msg.Action == actBan {
			m.form = nil
		}
		m.notice.success(modSuccess[msg.Action])
		if m.chatSrc != nil && msg.Action == actChatDelete {
			m.chatSrc.Refresh()
		}
	}
	return nil
}

func (m *moderator) View(width, height int) string {
	switch {
	case m.unauthorized:
		return unauthorizedView()
	case m.sessionID() == "":
		return m.events.view(width, true) + "\n\n" + styles.Muted.Render("Select an event to moderate.")
	case m.checking:
		return styles.Muted.Render("Checking permissions...")
	case m.denied != nil:
		return styles.ErrorMsg.Render(errors.UserMessage(m.denied, "Access denied."))
	case m.accessErr != "":
		return styles.ErrorMsg.Render(m.accessErr)
	}

	var b strings.Builder
	if !m.embedded {
		b.WriteString(styles.Title.Render("Moderator Dashboard: " + m.sessionID()))
		b.WriteString("\n")
	}
	names := make([]string, modPaneCount)
	for i, name := range modPaneNames {
		names[i] = name
		if n := m.paneLen(modPane(i)); n > 0 {
			names[i] = fmt.Sprintf("%s (%d)", name, n)
		}
	}
	b.WriteString(renderTabs(names, int(m.pane)))
	b.WriteString("\n\n")

	switch m.pane {
	case panePending:
		b.WriteString(m.questionsView("Pending Questions", m.queue.Pending(), "No new questions.", width))
	case paneApproved:
		b.WriteString(m.questionsView("Approved Questions", m.queue.Approved(), "No approved questions yet.", width))
	case paneSynthesized:
		b.WriteString(m.synthView(width))
	case paneChat:
		b.WriteString(styles.SectionTitle.Render("Chat"))
		b.WriteString("\n")
		b.WriteString(m.chat.view(m.base, width, true))
	case paneLinks:
		b.WriteString(m.linksView(width))
	}
	b.WriteString("\n")

	if sel := len(m.queue.Selected()); sel > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("%d selected for merge", sel)))
		b.WriteString("\n")
	}
	if m.synthesizing {
		b.WriteString(styles.Muted.Render("Synthesizing..."))
		b.WriteString("\n")
	}
	if s := m.notice.view(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	if m.form != nil {
		b.WriteString(m.form.view())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *moderator) questionsView(title string, list []model.Question, empty string, width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render(title))
	b.WriteString("\n")
	switch {
	case !m.qLoaded && m.qErr != "":
		b.WriteString(styles.ErrorMsg.Render(m.qErr))
		return b.String()
	case !m.qLoaded:
		b.WriteString(styles.Muted.Render("Loading..."))
		return b.String()
	case len(list) == 0:
		b.WriteString(styles.Muted.Render(empty))
	default:
		rows := make([]string, len(list))
		for i, q := range list {
			mark := "[ ]"
			if m.queue.IsSelected(q.ID) {
				mark = styles.ListItemSelected.Render("[x]")
			}
			rows[i] = fmt.Sprintf("%s %s %s %s", mark, styles.StatusIcon(string(q.Status)),
				styles.Primary.Render(q.AuthorInitials()), q.Text)
			if q.ExcludeFromAI {
				rows[i] += styles.WarningMsg.Render("  Exclude from AI")
			}
			if ts := m.formatTime(q.Timestamp); ts != "" {
				rows[i] += styles.Badge.Render("  " + ts)
			}
		}
		b.WriteString(strings.TrimRight(renderRows(rows, m.cursor[m.pane], true, width), "\n"))
	}
	if m.qErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorMsg.Render(m.qErr))
	}
	return b.String()
}

func (m *moderator) synthView(width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render("Synthesized Questions"))
	b.WriteString("\n")
	switch {
	case m.synthErr != "":
		b.WriteString(styles.ErrorMsg.Render(m.synthErr))
	case !m.synthLoaded:
		b.WriteString(styles.Muted.Render("Loading..."))
	case len(m.synth) == 0:
		b.WriteString(styles.Muted.Render("No synthesized questions awaiting review."))
	default:
		rows := make([]string, len(m.synth))
		for i, s := range m.synth {
			rows[i] = s.Text
		}
		b.WriteString(strings.TrimRight(renderRows(rows, m.cursor[paneSynthesized], true, width), "\n"))
	}
	return b.String()
}

func (m *moderator) linksView(width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render("Links Published by Moderators"))
	b.WriteString("\n")
	switch {
	case m.linksErr != "":
		b.WriteString(styles.ErrorMsg.Render(m.linksErr))
	case !m.linksLoaded:
		b.WriteString(styles.Muted.Render("Loading..."))
	case len(m.links) == 0:
		b.WriteString(styles.Muted.Render("No links yet."))
	default:
		rows := make([]string, len(m.links))
		for i, l := range m.links {
			rows[i] = l.Label() + styles.Badge.Render("  "+l.URL)
			if l.PublishedBy != "" {
				rows[i] += styles.Badge.Render(" by " + l.PublishedBy)
			}
		}
		b.WriteString(strings.TrimRight(renderRows(rows, m.cursor[paneLinks], true, width), "\n"))
	}
	return b.String()
}
