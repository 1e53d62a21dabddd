package messenger

import (
	"context"
	"fmt"
	"log"

	"team-status-backend/internal/board"
	"team-status-backend/internal/store"
)

// Publisher keeps exactly one board message live. It edits the tracked
// message in place when possible and falls back to posting a fresh one when
// the tracked message can no longer be reached.
type Publisher struct {
	store     store.Store
	client    Client
	channelID string
}

// NewPublisher creates a publisher posting into the given default channel.
func NewPublisher(s store.Store, c Client, channelID string) *Publisher {
	return &Publisher{
		store:     s,
		client:    c,
		channelID: channelID,
	}
}

// Publish brings the live board message in line with the rendered board.
//
// When a pointer exists the tracked message is located and edited. Any
// failure on that path is a recovery case, not an error: a new message is
// posted and the pointer replaced, but only after the post succeeded, so the
// pointer never refers to two messages at once.
func (p *Publisher) Publish(ctx context.Context, b board.Board) error {
	ptr, err := p.store.GetBoardPointer(ctx)
	if err != nil {
		return err
	}

	if ptr != nil {
		editErr := p.edit(ctx, ptr.ChannelID, ptr.MessageID, b)
		if editErr == nil {
			return nil
		}
		log.Printf("Board message %s/%s unreachable (%v); posting a replacement", ptr.ChannelID, ptr.MessageID, editErr)
	}

	msg, err := p.client.PostMessage(ctx, p.channelID, b)
	if err != nil {
		return fmt.Errorf("failed to post board message: %w", err)
	}
	if err := p.store.ReplaceBoardPointer(ctx, msg.ChannelID, msg.MessageID); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) edit(ctx context.Context, channelID, messageID string, b board.Board) error {
	if err := p.client.FetchMessage(ctx, channelID, messageID); err != nil {
		return err
	}
	return p.client.EditMessage(ctx, channelID, messageID, b)
}
