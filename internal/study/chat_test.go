package study

import (
	"errors"
	"strings"
	"testing"

	"studymate/internal/domain"
	"studymate/internal/learning"
)

func TestChatSendOpensAndRetitlesSession(t *testing.T) {
	gen := &recordingGenerator{replies: []string{"first answer", "second answer"}}
	repo := &memChats{}
	svc := NewChat(learning.NewGate(fixedCounter{}), gen, repo, nil, nopLog())

	long := "What is the difference between\nmitosis and meiosis in plant cells?"
	reply, err := svc.Send(t.Context(), freeUser, "", long)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	wantTitle := "What is the difference between mitosis a..."
	if reply.Title != wantTitle || repo.sessions[0].Title != wantTitle {
		t.Fatalf("title = %q / %q, want %q", reply.Title, repo.sessions[0].Title, wantTitle)
	}

	reply2, err := svc.Send(t.Context(), freeUser, reply.SessionID, "And in animals?")
	if err != nil {
		t.Fatalf("second Send returned error: %v", err)
	}
	if reply2.Title != wantTitle {
		t.Fatalf("title changed on the second message: %q", reply2.Title)
	}
	if !promptContains(gen.calls[1], "Student: "+long, "Assistant: first answer", "And in animals?") {
		t.Fatalf("second prompt is missing the prior exchange:\n%s", gen.calls[1].Prompt)
	}
	if gen.calls[1].MaxTokens != 300 || gen.calls[1].Temperature != 0.15 {
		t.Fatalf("sampling = %d / %v", gen.calls[1].MaxTokens, gen.calls[1].Temperature)
	}
	if len(repo.chats) != 2 {
		t.Fatalf("stored %d chats, want 2", len(repo.chats))
	}
}

func TestChatContextIsBounded(t *testing.T) {
	gen := &recordingGenerator{}
	repo := &memChats{}
	svc := NewChat(learning.NewGate(fixedCounter{}), gen, repo, nil, nopLog())
	reply, _ := svc.Send(t.Context(), proUser, "", "q0")
	for i := 1; i <= 5; i++ {
		if _, err := svc.Send(t.Context(), proUser, reply.SessionID, "q"+string(rune('0'+i))); err != nil {
			t.Fatalf("Send %d returned error: %v", i, err)
		}
	}
	last := gen.calls[len(gen.calls)-1]
	if got := strings.Count(last.Prompt, "Student: "); got != learning.ChatContextLimit {
		t.Fatalf("prompt carries %d exchanges, want %d", got, learning.ChatContextLimit)
	}
	if strings.Contains(last.Prompt, "Student: q0") {
		t.Fatalf("oldest exchange was not dropped")
	}
}

func TestChatSendRejections(t *testing.T) {
	repo := &memChats{}
	other, _ := repo.CreateSession(t.Context(), proUser.ID, domain.DefaultChatTitle)
	gen := &recordingGenerator{}

	limited := NewChat(learning.NewGate(fixedCounter{learning.QuotaChat: 10}), gen, repo, nil, nopLog())
	if _, err := limited.Send(t.Context(), freeUser, "", "hi"); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("over-cap error = %v", err)
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("a denied message opened a session")
	}

	svc := NewChat(learning.NewGate(fixedCounter{}), gen, repo, nil, nopLog())
	if _, err := svc.Send(t.Context(), freeUser, other.ID, "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign session error = %v", err)
	}
	if _, err := svc.Send(t.Context(), freeUser, "", "   "); !errors.Is(err, learning.ErrEmptyQuestion) {
		t.Fatalf("blank question error = %v", err)
	}
	if len(gen.calls) != 0 {
		t.Fatalf("generator called %d times for rejected messages", len(gen.calls))
	}
}

func TestChatSendImage(t *testing.T) {
	gen := &recordingGenerator{}
	repo := &memChats{}
	svc := NewChat(learning.NewGate(fixedCounter{}), gen, repo, fakeOCR{text: "2x + 3 = 7"}, nopLog())
	reply, err := svc.SendImage(t.Context(), proUser, "", []byte("png"))
	if err != nil {
		t.Fatalf("SendImage returned error: %v", err)
	}
	if reply.Question != learning.ImageChatQuestion || reply.Title != "Image Chat" {
		t.Fatalf("reply = %+v", reply)
	}
	if !promptContains(gen.calls[0], "2x + 3 = 7") {
		t.Fatalf("prompt is missing the extracted text")
	}
}
