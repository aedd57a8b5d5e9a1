package command

import (
	"context"
	"fmt"

	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	apperrors "nftrelay/pkg/errors"
	"nftrelay/pkg/models"
	"nftrelay/pkg/retry"
)

// BrokerHandler executes command envelopes received from the message broker
// and answers them through the Notifier.
type BrokerHandler struct {
	service  *Service
	notifier notifier.Notifier
	logger   logger.Logger
}

func NewBrokerHandler(service *Service, n notifier.Notifier, log logger.Logger) *BrokerHandler {
	return &BrokerHandler{
		service:  service,
		notifier: n,
		logger:   log,
	}
}

// Handle is a broker.HandlerFunc. Malformed envelopes and rejected commands
// are not retried; storage failures are.
func (h *BrokerHandler) Handle(ctx context.Context, msg models.MessageEnvelope) error {
	if msg.Kind != models.KindCommand {
		h.logger.DebugwCtx(ctx, "Ignoring non-command envelope", "id", msg.ID, "kind", msg.Kind)
		return nil
	}

	req := Request{
		Destination: msg.PayloadString("destination"),
		Command:     Name(msg.PayloadString("command")),
		Argument:    msg.PayloadString("argument"),
		Source:      SourceBroker,
	}
	if req.Destination == "" || req.Command == "" {
		return retry.Fatal(fmt.Errorf("command envelope %s: destination and command are required", msg.ID))
	}

	reply, err := h.service.Execute(ctx, req)
	if err != nil && !apperrors.IsValidation(err) {
		return err
	}

	if reply.Text == "" {
		return nil
	}
	if sendErr := h.notifier.SendText(ctx, req.Destination, reply.Text, reply.Format); sendErr != nil {
		h.logger.WarnwCtx(ctx, "Failed to send command reply",
			"id", msg.ID,
			"destination", req.Destination,
			"command", req.Command,
			"error", sendErr,
		)
	}
	return nil
}
