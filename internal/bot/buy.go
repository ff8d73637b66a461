package bot

import (
	"context"
	"fmt"

	"github.com/m3rciful/fitbot/internal/chat"
)

const (
	callbackProductBuying = "product_buying"

	msgChooseProduct = "Choose a product to buy:"
)

// handleBuy sends one card per product (with its image when available) and
// an inline keyboard to pick one.
func (b *Bot) handleBuy(ctx context.Context, ev chat.Event) error {
	buttons := make([]chat.Button, 0, len(b.products))
	for _, p := range b.products {
		card := fmt.Sprintf("Title: %s | Description: %s | Price: %d", p.Title, p.Description, p.Price)
		if err := b.reply(ctx, ev.UserID, chat.Reply{Text: card, Photo: p.Image}); err != nil {
			return err
		}
		buttons = append(buttons, chat.Button{
			Label: p.Title,
			Data:  callbackProductBuying + " " + p.Title,
		})
	}
	return b.reply(ctx, ev.UserID, chat.Reply{
		Text:    msgChooseProduct,
		Buttons: buttons,
	})
}

func (b *Bot) handleProductBuying(ctx context.Context, ev chat.Event) error {
	title := ev.Argument(callbackProductBuying)
	return b.reply(ctx, ev.UserID, chat.Reply{
		Text: fmt.Sprintf("You have successfully purchased %s!", title),
	})
}
