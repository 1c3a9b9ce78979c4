package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type stubSession struct {
	closed bool
}

func (s *stubSession) Render(context.Context, string) (string, error) {
	return "", nil
}

func (s *stubSession) Close() error {
	s.closed = true
	return nil
}

func TestWithSessionClosesOnEveryPath(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(Renderer) error
		wantErr bool
	}{
		{"success", func(Renderer) error { return nil }, false},
		{"error", func(Renderer) error { return errors.New("boom") }, true},
		{"panic", func(Renderer) error { panic("selector exploded") }, true},
	}

	for _, tt := range tests {
		sess := &stubSession{}
		open := func(context.Context) (Session, error) { return sess, nil }

		err := WithSession(context.Background(), open, tt.fn)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v; wantErr %v", tt.name, err, tt.wantErr)
		}
		if !sess.closed {
			t.Errorf("%s: session not closed", tt.name)
		}
	}
}

func TestWithSessionOpenFailure(t *testing.T) {
	open := func(context.Context) (Session, error) { return nil, errors.New("no chrome") }
	called := false
	err := WithSession(context.Background(), open, func(Renderer) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Errorf("err = %v, called = %v; want error and no call", err, called)
	}
}

func TestFirstMatchPriority(t *testing.T) {
	doc, err := ParseHTML(`<div>
		<div class="result-card">a</div>
		<div class="train-item">b</div>
		<div class="train-item">c</div>
	</div>`)
	if err != nil {
		t.Fatal(err)
	}

	sel, found := FirstMatch(doc.Selection, []string{".missing", "[[bad", ".train-item", ".result-card"})
	if sel != ".train-item" || found.Length() != 2 {
		t.Errorf("FirstMatch = %q (%d); want .train-item (2)", sel, found.Length())
	}

	if sel, found := FirstMatch(doc.Selection, []string{".nope"}); sel != "" || found != nil {
		t.Errorf("FirstMatch on no match = %q, %v", sel, found)
	}
}

func TestFieldText(t *testing.T) {
	doc, _ := ParseHTML(`<div class="card"><span class="dep-time">
		06:10 </span><span class="time">A</span><span class="time">B</span></div>`)
	card := doc.Find(".card")

	if got := FieldText(card, []string{"[class*=departure]", ".dep-time"}); got != "06:10" {
		t.Errorf("FieldText = %q", got)
	}
	if got := FieldText(card, []string{".absent"}); got != "" {
		t.Errorf("FieldText on absent = %q", got)
	}
	if got := FieldTexts(card, []string{".time"}); len(got) != 2 || got[1] != "B" {
		t.Errorf("FieldTexts = %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		want   ErrorKind
	}{
		{nil, http.StatusTooManyRequests, KindRateLimited},
		{nil, http.StatusForbidden, KindForbidden},
		{nil, http.StatusNotFound, KindNotFound},
		{nil, http.StatusBadGateway, KindUpstream},
		{context.DeadlineExceeded, 0, KindTimeout},
		{errors.New("weird"), 0, KindOther},
	}
	for _, tt := range tests {
		fe := Classify(tt.err, tt.status, "https://example.test")
		if fe.Kind != tt.want {
			t.Errorf("Classify(%v, %d) = %s; want %s", tt.err, tt.status, fe.Kind, tt.want)
		}
		if KindOf(fe) != tt.want {
			t.Errorf("KindOf mismatch for %v", tt.err)
		}
	}
	if KindOf(errors.New("plain")) != KindOther {
		t.Error("KindOf(plain) should be other")
	}
}
