package telegram

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"nftrelay/internal/command"
	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
)

// CommandHandler answers chat commands in private chats, groups and
// channels.
type CommandHandler struct {
	client   *Client
	replies  notifier.Notifier
	commands *command.Service
	logger   logger.Logger
}

func NewCommandHandler(client *Client, commands *command.Service, log logger.Logger) *CommandHandler {
	return &CommandHandler{
		client:   client,
		replies:  client.Paced(),
		commands: commands,
		logger:   log,
	}
}

// Register hooks the handler into every text message the bot receives.
func (h *CommandHandler) Register() {
	h.client.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.handle)
}

func (h *CommandHandler) handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil {
		return
	}
	h.HandleText(ctx, strconv.FormatInt(msg.Chat.ID, 10), msg.Text)
}

// HandleText runs one chat message. Text that is not a command is ignored.
func (h *CommandHandler) HandleText(ctx context.Context, destination, text string) {
	req, ok := command.Parse(destination, text, h.commands.Links())
	if !ok {
		return
	}
	req.Source = command.SourceTelegram

	reply, _ := h.commands.Execute(ctx, req)
	if reply.Text == "" {
		return
	}

	if err := h.replies.SendText(ctx, destination, reply.Text, reply.Format); err != nil {
		h.logger.WarnwCtx(ctx, "Failed to send command reply",
			"destination", destination,
			"command", req.Command,
			"error", err,
		)
	}
}
