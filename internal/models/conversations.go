package models

import "time"

// Conversation is the record shape of the conversations collection.
type Conversation struct {
	ID            string     `json:"id,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

// ConversationParticipant joins a user into a conversation.
type ConversationParticipant struct {
	ID           string `json:"id,omitempty"`
	Conversation string `json:"conversation"`
	User         string `json:"user"`
}
