package usecase

import (
	"context"
	"errors"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

// ManageConversationsUseCase lists, replays and deletes conversation logs.
type ManageConversationsUseCase struct {
	conversations ports.ConversationRepository
}

func NewManageConversationsUseCase(conversations ports.ConversationRepository) *ManageConversationsUseCase {
	return &ManageConversationsUseCase{conversations: conversations}
}

func (uc *ManageConversationsUseCase) ListConversations(ctx context.Context, ownerID string) ([]domain.Conversation, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list conversations", errors.New("missing owner id"))
	}
	list, err := uc.conversations.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		count, err := uc.conversations.CountMessages(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].MessageCount = count
	}
	return list, nil
}

func (uc *ManageConversationsUseCase) History(ctx context.Context, ownerID, conversationID string) ([]domain.Message, error) {
	if _, err := uc.ownedConversation(ctx, ownerID, conversationID); err != nil {
		return nil, err
	}
	return uc.conversations.ListRecentMessages(ctx, conversationID, 0)
}

func (uc *ManageConversationsUseCase) DeleteConversation(ctx context.Context, ownerID, conversationID string) error {
	if _, err := uc.ownedConversation(ctx, ownerID, conversationID); err != nil {
		return err
	}
	return uc.conversations.Delete(ctx, conversationID)
}

func (uc *ManageConversationsUseCase) ownedConversation(ctx context.Context, ownerID, conversationID string) (*domain.Conversation, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read conversation", errors.New("missing owner id"))
	}
	conv, err := uc.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.OwnerID != ownerID {
		return nil, domain.WrapError(domain.ErrUnauthorized, "read conversation", errors.New("conversation belongs to another user"))
	}
	return conv, nil
}
