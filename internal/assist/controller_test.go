package assist

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/blogwriter/margins/internal/bus"
	"github.com/blogwriter/margins/internal/geometry"
	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/selection"
	"github.com/blogwriter/margins/internal/verify"
)

type fakeVerifier struct {
	mu    sync.Mutex
	last  verify.Request
	calls int
}

func (f *fakeVerifier) Name() string { return "fake" }

func (f *fakeVerifier) Check(ctx context.Context, req verify.Request) (*model.FactCheckResult, error) {
	f.mu.Lock()
	f.last = req
	f.calls++
	f.mu.Unlock()
	return &model.FactCheckResult{
		Success:     true,
		TotalClaims: 1,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

type hostEditor struct {
	mu   sync.Mutex
	snap *selection.Snapshot
}

func (h *hostEditor) provider() (selection.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap == nil {
		return selection.Snapshot{}, false
	}
	return *h.snap, true
}

func (h *hostEditor) selectText(text string) {
	h.mu.Lock()
	h.snap = &selection.Snapshot{
		Rect:     &geometry.Rect{Left: 120, Top: 240, Width: 90, Height: 18},
		Text:     text,
		Viewport: geometry.Viewport{Width: 1024, Height: 768},
	}
	h.mu.Unlock()
}

func testController(t *testing.T, host *hostEditor, v verify.Verifier, opts Options) *Controller {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Selection.Debounce = 20 * time.Millisecond
	cfg.FactCheck.Tick = 10 * time.Millisecond
	cfg.FactCheck.Timeout = time.Second
	c := New(cfg, host.provider, v, opts)
	t.Cleanup(c.Close)
	return c
}

func waitForAnchor(t *testing.T, c *Controller) *model.SelectionAnchor {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a := c.State().Anchor; a != nil {
			return a
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("anchor never appeared")
	return nil
}

func waitForResult(t *testing.T, c *Controller) *model.FactCheckResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := c.State()
		if !s.InProgress && s.Result != nil {
			return s.Result
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("fact-check never finished")
	return nil
}

func TestController_SelectionToAnchor(t *testing.T) {
	host := &hostEditor{}
	c := testController(t, host, &fakeVerifier{}, Options{})

	host.selectText("a selection long enough for the menu")
	c.SelectionChanged()

	anchor := waitForAnchor(t, c)
	if anchor.Text != "a selection long enough for the menu" {
		t.Errorf("anchor.Text = %q", anchor.Text)
	}
}

func TestController_CheckFactsUsesAnchoredText(t *testing.T) {
	host := &hostEditor{}
	v := &fakeVerifier{}
	c := testController(t, host, v, Options{})

	host.selectText("the eiffel tower was completed in 1889")
	c.SelectionChanged()
	waitForAnchor(t, c)

	c.CheckFacts()
	result := waitForResult(t, c)

	if !result.Success {
		t.Errorf("result = %+v", result)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last.Text != "the eiffel tower was completed in 1889" {
		t.Errorf("verifier got text %q", v.last.Text)
	}
	if !v.last.IncludeSources || v.last.MaxClaims != 10 {
		t.Errorf("verifier request = %+v, want includeSources and maxClaims=10", v.last)
	}
}

func TestController_CheckFactsWithoutAnchorIsNoOp(t *testing.T) {
	host := &hostEditor{}
	v := &fakeVerifier{}
	c := testController(t, host, v, Options{})

	c.CheckFacts()
	time.Sleep(50 * time.Millisecond)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.calls != 0 {
		t.Errorf("verifier called %d times without an anchor", v.calls)
	}
}

func TestController_ApplyQuickEditBroadcastsAndClosesMenu(t *testing.T) {
	host := &hostEditor{}
	b := bus.NewMemory()

	var mu sync.Mutex
	var broadcasts []bus.ReplaceSelectedText
	b.Subscribe(bus.EventReplaceSelectedText, func(p interface{}) {
		mu.Lock()
		broadcasts = append(broadcasts, p.(bus.ReplaceSelectedText))
		mu.Unlock()
	})

	c := testController(t, host, &fakeVerifier{}, Options{
		Bus:  b,
		Rand: rand.New(rand.NewSource(7)),
	})

	host.selectText("I think it can't work and I believe that's true.")
	c.SelectionChanged()
	waitForAnchor(t, c)

	var replacedWith string
	c.ApplyQuickEdit(model.EditProfessionalize, func(original, edited string, editType model.EditType) {
		replacedWith = edited
	})

	if replacedWith == "" {
		t.Fatal("replace callback not invoked")
	}

	mu.Lock()
	if len(broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(broadcasts))
	}
	got := broadcasts[0]
	mu.Unlock()

	if got.EditedText != replacedWith || got.EditType != model.EditProfessionalize {
		t.Errorf("broadcast = %+v", got)
	}

	if c.State().Anchor != nil {
		t.Error("menu anchor must be cleared after a quick edit")
	}
}

func TestController_DismissClearsResult(t *testing.T) {
	host := &hostEditor{}
	c := testController(t, host, &fakeVerifier{}, Options{})

	// Dismiss with nothing displayed: no-op, no panic.
	c.DismissResult()

	c.CheckText("the eiffel tower was completed in 1889")
	waitForResult(t, c)

	c.DismissResult()
	if c.State().Result != nil {
		t.Error("result must be cleared after dismissal")
	}
}
