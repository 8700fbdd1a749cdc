// Package router implements the conversational core of the bot: it
// classifies each inbound message into exactly one intent and drives the
// analyzer, formatter, stats store, and outbound sender to produce the reply.
// The router keeps no session state; the only conversational memory it uses
// is the reply-to text carried by the message itself.
package router

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/domainwatch/twistbot/internal/analyzer"
	"github.com/domainwatch/twistbot/internal/config"
	"github.com/domainwatch/twistbot/internal/database"
	"github.com/domainwatch/twistbot/internal/report"
	"github.com/domainwatch/twistbot/internal/stats"
)

// feedbackSentinel correlates a reply with the feedback prompt. It must be a
// prefix of FeedbackPrompt; both live here so the prompt the bot sends and
// the text the classifier matches can never drift apart.
const feedbackSentinel = "Пожалуйста, отправьте ваше сообщение"

// FeedbackPrompt is sent with ForceReply markup when the user picks the
// feedback menu entry. The user's direct reply to it is relayed to the
// administrator.
const FeedbackPrompt = feedbackSentinel + ", и я передам его администратору."

// InboundMessage is one user-originated event, already stripped of transport
// details. ReplyToText is the text of the message this one replies to, if any.
type InboundMessage struct {
	UserID      int64
	ChatID      int64
	DisplayName string
	Username    string
	Text        string
	ReplyToText string
}

// Intent classifies an InboundMessage into exactly one conversational path.
type Intent int

const (
	IntentStart Intent = iota
	IntentDomainMenu
	IntentFeedbackMenu
	IntentStatsQuery
	IntentFeedbackReply
	IntentDomainSubmission
)

// Sender delivers outbound text. Implementations split long texts into
// transport-size segments and send them in order.
type Sender interface {
	// Send delivers text to a chat.
	Send(ctx context.Context, chatID int64, text string) error
	// SendMenu delivers text together with the main reply keyboard for the
	// given user.
	SendMenu(ctx context.Context, chatID, userID int64, text string) error
	// SendForceReply delivers text requesting a direct reply, so the answer
	// can be correlated without session state.
	SendForceReply(ctx context.Context, chatID int64, text string) error
}

// Analyzer runs the external permutation scanner.
type Analyzer interface {
	Analyze(ctx context.Context, domain string) analyzer.Outcome
}

// Stats records service usage and reports the aggregate counters.
type Stats interface {
	RecordHit(userID int64) error
	Snapshot() (stats.Snapshot, error)
}

// Journal archives lookups and feedback. Journal writes are best-effort: a
// failure is logged and never blocks the user's reply.
type Journal interface {
	SaveLookup(ctx context.Context, lookup *database.Lookup) error
	SaveFeedback(ctx context.Context, feedback *database.Feedback) error
}

// Router routes inbound messages. It is stateless across calls; all
// cross-call state lives in the collaborators.
type Router struct {
	log      *slog.Logger
	cfg      *config.Config
	sender   Sender
	analyzer Analyzer
	stats    Stats
	journal  Journal
}

// New creates a Router with its collaborators.
func New(log *slog.Logger, cfg *config.Config, sender Sender, an Analyzer, st Stats, journal Journal) *Router {
	return &Router{
		log:      log.With("component", "router"),
		cfg:      cfg,
		sender:   sender,
		analyzer: an,
		stats:    st,
		journal:  journal,
	}
}

// Classify maps a message onto exactly one intent. The rules are ordered:
// literal menu labels win over reply correlation, which wins over the
// free-text domain fallback.
func (r *Router) Classify(msg InboundMessage) Intent {
	buttons := r.cfg.Telegram.Buttons
	switch {
	case msg.Text == "/start" || strings.HasPrefix(msg.Text, "/start "):
		return IntentStart
	case msg.Text == buttons.CheckDomain:
		return IntentDomainMenu
	case msg.Text == buttons.Feedback:
		return IntentFeedbackMenu
	case msg.Text == buttons.Stats:
		return IntentStatsQuery
	case strings.Contains(msg.ReplyToText, feedbackSentinel):
		return IntentFeedbackReply
	default:
		return IntentDomainSubmission
	}
}

// Route handles one inbound message end to end. Collaborator faults are
// surfaced to the user as text or logged; the returned error covers transport
// failures only, so the receive loop can treat every message uniformly.
func (r *Router) Route(ctx context.Context, msg InboundMessage) error {
	switch r.Classify(msg) {
	case IntentStart:
		return r.handleStart(ctx, msg)
	case IntentDomainMenu:
		return r.handleDomainMenu(ctx, msg)
	case IntentFeedbackMenu:
		return r.handleFeedbackMenu(ctx, msg)
	case IntentStatsQuery:
		return r.handleStatsQuery(ctx, msg)
	case IntentFeedbackReply:
		return r.handleFeedbackReply(ctx, msg)
	default:
		return r.handleDomainSubmission(ctx, msg)
	}
}

func (r *Router) handleStart(ctx context.Context, msg InboundMessage) error {
	greeting := fmt.Sprintf(r.cfg.Telegram.Messages.Welcome, html.EscapeString(msg.DisplayName))
	return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, greeting)
}

func (r *Router) handleDomainMenu(ctx context.Context, msg InboundMessage) error {
	r.recordHit(ctx, msg.UserID)
	return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, r.cfg.Telegram.Messages.DomainPrompt)
}

func (r *Router) handleFeedbackMenu(ctx context.Context, msg InboundMessage) error {
	r.recordHit(ctx, msg.UserID)
	return r.sender.SendForceReply(ctx, msg.ChatID, FeedbackPrompt)
}

// handleStatsQuery is read-only: it never records a hit, and non-admins learn
// nothing about the counters.
func (r *Router) handleStatsQuery(ctx context.Context, msg InboundMessage) error {
	if msg.UserID != r.cfg.Telegram.AdminUserID {
		r.log.InfoContext(ctx, "Stats query denied", "user_id", msg.UserID)
		return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, r.cfg.Telegram.Messages.StatsDenied)
	}

	snap, err := r.stats.Snapshot()
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read stats snapshot", "error", err)
		return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, r.cfg.Telegram.Messages.GeneralError)
	}
	return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, snap.Report())
}

// handleFeedbackReply relays the text verbatim to the administrator, archives
// it, and acknowledges the sender. It records no usage hit: feedback is not a
// service use.
func (r *Router) handleFeedbackReply(ctx context.Context, msg InboundMessage) error {
	relay := fmt.Sprintf("Новое сообщение от %s (@%s):\n\n%s", msg.DisplayName, msg.Username, msg.Text)
	if err := r.sender.Send(ctx, r.cfg.Telegram.AdminUserID, relay); err != nil {
		r.log.ErrorContext(ctx, "Failed to relay feedback to admin", "error", err, "user_id", msg.UserID)
	}

	if err := r.journal.SaveFeedback(ctx, &database.Feedback{
		UserID:   msg.UserID,
		Username: msg.Username,
		Content:  msg.Text,
	}); err != nil {
		r.log.WarnContext(ctx, "Failed to journal feedback", "error", err, "user_id", msg.UserID)
	}

	return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, r.cfg.Telegram.Messages.FeedbackAck)
}

func (r *Router) handleDomainSubmission(ctx context.Context, msg InboundMessage) error {
	domain := strings.TrimSpace(msg.Text)
	if domain == "" {
		return r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, r.cfg.Telegram.Messages.InvalidDomain)
	}

	r.recordHit(ctx, msg.UserID)
	r.log.InfoContext(ctx, "Domain analysis requested", "user_id", msg.UserID, "domain", domain)

	// The interim acknowledgment goes out before the scanner starts, so the
	// user is never left staring at a silent chat during a slow scan.
	if err := r.sender.SendMenu(ctx, msg.ChatID, msg.UserID, r.cfg.Telegram.Messages.Working); err != nil {
		r.log.ErrorContext(ctx, "Failed to send working acknowledgment", "error", err, "chat_id", msg.ChatID)
	}

	outcome := r.analyzer.Analyze(ctx, domain)
	body := report.Format(outcome)

	status := database.LookupStatusOK
	if outcome.Failed() {
		status = database.LookupStatusError
	}
	if err := r.journal.SaveLookup(ctx, &database.Lookup{
		UserID:   msg.UserID,
		Username: msg.Username,
		Domain:   domain,
		Results:  len(outcome.Records),
		Status:   status,
	}); err != nil {
		r.log.WarnContext(ctx, "Failed to journal lookup", "error", err, "domain", domain)
	}

	header := fmt.Sprintf(r.cfg.Telegram.Messages.ResultHeader, html.EscapeString(domain))
	return r.sender.Send(ctx, msg.ChatID, header+"\n"+body)
}

// recordHit is best-effort: a broken counter file must not take the bot down.
func (r *Router) recordHit(ctx context.Context, userID int64) {
	if err := r.stats.RecordHit(userID); err != nil {
		r.log.ErrorContext(ctx, "Failed to record usage hit", "error", err, "user_id", userID)
	}
}
