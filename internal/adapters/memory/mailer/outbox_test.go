package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
)

func TestOutbox_RecordsMessages(t *testing.T) {
	t.Parallel()

	to, err := domain.ParseSubscriberEmail("reader@example.com")
	if err != nil {
		t.Fatalf("ParseSubscriberEmail() err=%v", err)
	}
	o := NewOutbox()
	if err := o.Send(context.Background(), to, "Welcome", "<p>hi</p>", "hi"); err != nil {
		t.Fatalf("Send() err=%v", err)
	}

	sent := o.Sent()
	if len(sent) != 1 {
		t.Fatalf("len(Sent())=%d, want 1", len(sent))
	}
	want := Message{To: "reader@example.com", Subject: "Welcome", HTMLBody: "<p>hi</p>", TextBody: "hi"}
	if sent[0] != want {
		t.Fatalf("Sent()[0]=%+v, want %+v", sent[0], want)
	}
}

func TestOutbox_Err(t *testing.T) {
	t.Parallel()

	to, _ := domain.ParseSubscriberEmail("reader@example.com")
	boom := errors.New("boom")
	o := NewOutbox()
	o.Err = boom
	if err := o.Send(context.Background(), to, "s", "h", "t"); !errors.Is(err, boom) {
		t.Fatalf("Send() err=%v, want %v", err, boom)
	}
	if len(o.Sent()) != 0 {
		t.Fatalf("expected no recorded messages")
	}
}
