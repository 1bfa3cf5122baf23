package usecase

import (
	"context"
	"testing"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

func conversationsFixture() (*ManageConversationsUseCase, *fakeConversationRepo) {
	repo := newFakeConversationRepo()
	_ = repo.Create(context.Background(), &domain.Conversation{ID: "conv-1", OwnerID: "user-1"})
	_ = repo.Create(context.Background(), &domain.Conversation{ID: "conv-2", OwnerID: "user-2"})
	_ = repo.AppendMessage(context.Background(), domain.Message{ID: "m1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "hi"})
	_ = repo.AppendMessage(context.Background(), domain.Message{ID: "m2", ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "hello"})
	return NewManageConversationsUseCase(repo), repo
}

func TestListConversationsScopedToOwner(t *testing.T) {
	uc, _ := conversationsFixture()

	list, err := uc.ListConversations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(list) != 1 || list[0].ID != "conv-1" {
		t.Errorf("list = %+v", list)
	}
	if list[0].MessageCount != 2 {
		t.Errorf("message count = %d, want 2", list[0].MessageCount)
	}
}

func TestConversationHistory(t *testing.T) {
	uc, _ := conversationsFixture()

	msgs, err := uc.History(context.Background(), "user-1", "conv-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "hi" || msgs[1].Content != "hello" {
		t.Errorf("history = %+v", msgs)
	}

	if _, err := uc.History(context.Background(), "user-1", "conv-2"); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Errorf("foreign history: err = %v", err)
	}
	if _, err := uc.History(context.Background(), "user-1", "missing"); !domain.IsKind(err, domain.ErrConversationNotFound) {
		t.Errorf("missing history: err = %v", err)
	}
}

func TestDeleteConversation(t *testing.T) {
	uc, repo := conversationsFixture()

	if err := uc.DeleteConversation(context.Background(), "user-1", "conv-1"); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "conv-1"); !domain.IsKind(err, domain.ErrConversationNotFound) {
		t.Error("conversation survived deletion")
	}

	if err := uc.DeleteConversation(context.Background(), "user-1", "conv-2"); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Errorf("foreign delete: err = %v", err)
	}
}
