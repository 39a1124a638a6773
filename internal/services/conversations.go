package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

// StartConversation answers a direct conversation between the caller
// and the other user, reusing one they already share before creating
// anything. The second return reports whether a conversation was
// created.
func StartConversation(ctx context.Context, token, me, other string) (string, bool, error) {
	var mine []models.ConversationParticipant
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "conversation_participants",
		Fields:     []string{"conversation"},
		Filter:     []cms.Condition{cms.Eq("user", me)},
		Limit:      -1,
	}, &mine)
	if err != nil {
		return "", false, fmt.Errorf("failed to list conversations: %v", err)
	}

	conversationIds := lo.Uniq(lo.Map(mine, func(item models.ConversationParticipant, _ int) string {
		return item.Conversation
	}))

	for _, conversationId := range conversationIds {
		var shared []models.ConversationParticipant
		err := Cx.ReadItems(ctx, token, cms.Query{
			Collection: "conversation_participants",
			Fields:     []string{"user"},
			Filter: []cms.Condition{
				cms.Eq("conversation", conversationId),
				cms.Eq("user", other),
			},
			Limit: 1,
		}, &shared)
		if err != nil {
			return "", false, fmt.Errorf("failed to inspect conversation: %v", err)
		}
		if len(shared) > 0 {
			return conversationId, false, nil
		}
	}

	var conversation models.Conversation
	if err := Cx.CreateItem(ctx, token, "conversations", models.Conversation{}, &conversation); err != nil {
		return "", false, fmt.Errorf("failed to create conversation: %v", err)
	}
	for _, userId := range []string{me, other} {
		participant := models.ConversationParticipant{
			Conversation: conversation.ID,
			User:         userId,
		}
		if err := Cx.CreateItem(ctx, token, "conversation_participants", participant, nil); err != nil {
			return conversation.ID, true, fmt.Errorf("failed to add participant: %v", err)
		}
	}

	return conversation.ID, true, nil
}
