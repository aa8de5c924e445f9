// Package monitor periodically asks the emotion-detection tool for a fresh
// reading and raises an alert when the user seems to be in a negative state.
package monitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"time"

	"github.com/vthunder/companion/internal/config"
	"github.com/vthunder/companion/internal/executive"
	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/moodlog"
)

// Prompt is the system prompt of every detection context. It forbids reusing
// earlier answers and fixes the reply format.
const Prompt = "請務必呼叫『情緒偵測』的 MCP 工具取得最新結果，" +
	"不要沿用先前對話的任何答案，也不要猜測；" +
	"最後只回一行 JSON，例如：{\"emotion\":\"sad\",\"score\":0.87}\n"

// Invoker runs one instruction in a fresh context
type Invoker interface {
	Invoke(ctx context.Context, instruction string) (executive.Result, error)
}

// Store keeps readings. *moodlog.Store implements it.
type Store interface {
	Record(ctx context.Context, r moodlog.Reading) (int64, error)
}

// Event is one detection result
type Event struct {
	Label string
	Score *float64
	Nonce string
}

// Monitor polls for emotion readings. It is the only producer on its
// notification channel.
type Monitor struct {
	inv   Invoker
	cfg   *config.Config
	store Store

	last map[string]any
	now  func() time.Time
}

// New creates a monitor. inv should open its contexts with Prompt; store may
// be nil.
func New(inv Invoker, cfg *config.Config, store Store) *Monitor {
	return &Monitor{
		inv:   inv,
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
}

// Run checks immediately and then every PollInterval until ctx is cancelled.
// Ticks never overlap. Failures become notifications and never stop the loop.
func (m *Monitor) Run(ctx context.Context, out chan<- string) {
	logging.Info("monitor", "started, interval %s, negative set %v", m.cfg.PollInterval, m.cfg.NegativeEmotions)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("monitor", "stopped")
			return
		case <-timer.C:
		}

		if msg, ok := m.tick(ctx); ok {
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
		timer.Reset(m.cfg.PollInterval)
	}
}

// tick runs one detection and returns the notification to show, if any
func (m *Monitor) tick(ctx context.Context) (string, bool) {
	nonce := m.nonce()
	res, err := m.inv.Invoke(ctx, fmt.Sprintf("請立即偵測情緒並依規定格式回覆。nonce=%s", nonce))
	if err != nil {
		if ctx.Err() != nil {
			return "", false
		}
		logging.Info("monitor", "detection failed: %v", err)
		return fmt.Sprintf("\n[情緒偵測/MCP] 呼叫失敗：%v\n", err), true
	}
	logging.Trace(m.cfg.EmotionDebug, "emotion", "nonce=%s text=%q", nonce, res.RawText)
	logging.Trace(m.cfg.EmotionDebug, "emotion", "parsed=%v", res.JSON)

	if len(res.JSON) == 0 || reflect.DeepEqual(res.JSON, m.last) {
		return "", false
	}
	m.last = res.JSON

	ev := parseEvent(res.JSON, nonce)
	alert := ev.Label != "" && m.cfg.IsNegative(ev.Label)
	m.record(ctx, ev, alert)
	if !alert {
		return "", false
	}
	return FormatAlert(ev), true
}

func (m *Monitor) record(ctx context.Context, ev Event, alerted bool) {
	if m.store == nil || ev.Label == "" {
		return
	}
	_, err := m.store.Record(ctx, moodlog.Reading{
		At:      m.now(),
		Label:   ev.Label,
		Score:   ev.Score,
		Nonce:   ev.Nonce,
		Alerted: alerted,
	})
	if err != nil {
		logging.Info("monitor", "store reading: %v", err)
	}
}

// nonce is "<unix seconds>-<4 random digits>"
func (m *Monitor) nonce() string {
	return fmt.Sprintf("%d-%d", m.now().Unix(), 1000+rand.IntN(9000))
}

func parseEvent(obj map[string]any, nonce string) Event {
	ev := Event{Nonce: nonce}
	if s, ok := obj["emotion"].(string); ok {
		ev.Label = strings.ToLower(strings.TrimSpace(s))
	}
	if f, ok := obj["score"].(float64); ok {
		ev.Score = &f
	}
	return ev
}

// FormatAlert renders the user-facing alert for a negative reading
func FormatAlert(ev Event) string {
	var b strings.Builder
	b.WriteString("\n[情緒偵測] 目前情緒：")
	b.WriteString(ev.Label)
	if ev.Score != nil {
		fmt.Fprintf(&b, "（信心 %.2f）", *ev.Score)
	}
	b.WriteString("\n→ 你看起來狀態不太好，需要幫忙嗎？\n   同意請輸入 /ok（拒絕：/no）\n")
	return b.String()
}
