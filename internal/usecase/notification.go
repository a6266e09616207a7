package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Message kinds emitted by the engine. Wording and templating of the
// final mail text is a presentation concern; the engine only commits
// to one typed message per event.
const (
	MessageMatchResult       = "MATCH_RESULT"
	MessageDrawProposed      = "DRAW_PROPOSED"
	MessageDrawConfirmed     = "DRAW_CONFIRMED"
	MessageOfferAccepted     = "OFFER_ACCEPTED"
	MessageOfferCountered    = "OFFER_COUNTERED"
	MessageOfferRejected     = "OFFER_REJECTED"
	MessageOfferLockout      = "OFFER_LOCKOUT"
	MessageOfferBlocked      = "OFFER_BLOCKED"
	MessageSeasonTransition  = "SEASON_TRANSITION"
	MessageCoachFired        = "COACH_FIRED"
	MessageCoachHired        = "COACH_HIRED"
	MessagePromotion         = "PROMOTION"
	MessageRelegation        = "RELEGATION"
	MessageFreeAgentLockout  = "FREE_AGENT_LOCKOUT"
	MessageInjury            = "INJURY"
	MessageSuperCupScheduled = "SUPERCUP_SCHEDULED"
)

// Message is one notification produced by a simulation step.
type Message struct {
	Date    time.Time
	Kind    string
	ClubID  string
	Subject string
	Body    string
}

// Notifier consumes engine notifications. Implementations must not
// mutate world state.
type Notifier interface {
	Notify(msg Message)
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) Notify(Message) {}

// MemoryNotifier collects messages for inspection, newest last.
type MemoryNotifier struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Notify(msg Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *MemoryNotifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Message, len(n.messages))
	copy(out, n.messages)
	return out
}

func (n *MemoryNotifier) ByKind(kind string) []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Message
	for _, m := range n.messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// renderBody assembles a plain key/value body. Pooled buffers keep the
// per-day message volume from churning allocations.
func renderBody(pairs ...string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			_, _ = buf.WriteString("; ")
		}
		_, _ = fmt.Fprintf(buf, "%s=%s", pairs[i], pairs[i+1])
	}
	return buf.String()
}
