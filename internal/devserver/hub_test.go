package devserver

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

func TestHubPublishSequencesPerGame(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("g1")
	b := h.Subscribe("g2")

	h.Publish("g1", client.Envelope{Type: client.EventComplete})
	h.Publish("g1", client.Envelope{Type: client.EventComplete})
	h.Publish("g2", client.Envelope{Type: client.EventComplete})

	if got := (<-a.send).Seq; got != 1 {
		t.Errorf("first g1 seq = %d", got)
	}
	if got := (<-a.send).Seq; got != 2 {
		t.Errorf("second g1 seq = %d", got)
	}
	if got := (<-b.send).Seq; got != 1 {
		t.Errorf("g2 seq = %d, want its own counter", got)
	}
}

func TestHubConcurrentPublishKeepsOrder(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("g")

	const writers, each = 4, subscriberBuffer / 4
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				h.Publish("g", client.Envelope{Type: client.EventNarrative})
			}
		}()
	}
	wg.Wait()

	var last uint64
	for i := 0; i < writers*each; i++ {
		env := <-sub.send
		if env.Seq != last+1 {
			t.Fatalf("event %d has seq %d after %d", i, env.Seq, last)
		}
		last = env.Seq
	}
}

func TestHubSubscribeQueuesFirstAheadOfEvents(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("g", client.Envelope{Type: client.EventGameUpdate})
	h.Publish("g", client.Envelope{Type: client.EventComplete})

	if env := <-sub.send; env.Type != client.EventGameUpdate || env.Seq != 0 {
		t.Errorf("first = %+v, want unsequenced snapshot", env)
	}
	if env := <-sub.send; env.Type != client.EventComplete || env.Seq != 1 {
		t.Errorf("second = %+v", env)
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub()
	slow := h.Subscribe("g")
	for i := 0; i <= subscriberBuffer; i++ {
		h.Publish("g", client.Envelope{Type: client.EventHeartbeat})
	}
	if n := h.ClientCount("g"); n != 0 {
		t.Fatalf("ClientCount = %d, want slow subscriber dropped", n)
	}
	n := 0
	for range slow.send {
		n++
	}
	if n != subscriberBuffer {
		t.Errorf("drained %d buffered events, want %d", n, subscriberBuffer)
	}
}

func TestHubUnsubscribeTwice(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("g")
	h.Unsubscribe(s)
	h.Unsubscribe(s)
	if n := h.ClientCount("g"); n != 0 {
		t.Errorf("ClientCount = %d", n)
	}
	h.Publish("g", client.Envelope{Type: client.EventComplete})
}

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
		want client.EventType
		ok   bool
	}{
		{"narrative", client.NarrativeMsg{Payload: client.NarrativePayload{Content: "Rain."}}, client.EventNarrative, true},
		{"tool result", client.ToolResultMsg{Payload: client.ToolResultPayload{ToolName: "roll_dice", Result: "7"}}, client.EventToolResult, true},
		{"error", client.StreamErrorMsg{Payload: client.ErrorPayload{Error: "boom"}}, client.EventError, true},
		{"complete", client.CompleteMsg{}, client.EventComplete, true},
		{"connected not forwarded", client.StreamConnectedMsg{}, "", false},
		{"foreign message", tea.QuitMsg{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok, err := encodeEvent(tt.msg)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.ok || env.Type != tt.want {
				t.Errorf("encodeEvent = (%q, %v), want (%q, %v)", env.Type, ok, tt.want, tt.ok)
			}
			if ok && len(env.Payload) == 0 {
				t.Error("payload should not be empty")
			}
		})
	}
}
