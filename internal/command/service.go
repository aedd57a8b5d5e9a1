package command

import (
	"context"
	"errors"
	"strings"

	"nftrelay/internal/events"
	"nftrelay/internal/locale"
	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	"nftrelay/internal/subscription"
	apperrors "nftrelay/pkg/errors"
	"nftrelay/pkg/logging"
	"nftrelay/pkg/metrics"
)

// Service executes tracking commands against the subscription store and
// renders the answer in the destination's language.
type Service struct {
	store   *subscription.Store
	locales *locale.Registry
	links   *events.CollectionParser
	logger  logger.Logger
}

func NewService(store *subscription.Store, locales *locale.Registry, links *events.CollectionParser, log logger.Logger) *Service {
	return &Service{
		store:   store,
		locales: locales,
		links:   links,
		logger:  log,
	}
}

func (s *Service) Links() *events.CollectionParser {
	return s.links
}

// Execute runs req. Validation failures return a VALIDATION_ERROR together
// with the rejection reply; storage failures return the generic failure reply.
func (s *Service) Execute(ctx context.Context, req Request) (Reply, error) {
	ctx = logging.WithDestination(ctx, req.Destination)

	reply, err := s.execute(ctx, req)

	status := "ok"
	switch {
	case err == nil:
	case apperrors.IsValidation(err):
		status = "rejected"
	default:
		status = "error"
		s.logger.ErrorwCtx(ctx, "Command failed",
			"command", req.Command,
			"source", req.Source,
			"error", err,
		)
	}
	metrics.IncCommand(string(req.Command), req.Source, status)

	return reply, err
}

func (s *Service) execute(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return Reply{}, apperrors.ErrValidation.WithMessage("destination is required")
	}

	pack := s.locales.Get(s.store.Locale(req.Destination))

	switch req.Command {
	case Start:
		return rich(pack.Start()), nil
	case Help:
		return rich(pack.Help()), nil
	case Track:
		return s.track(ctx, pack, req)
	case Stop:
		if req.Argument == "" {
			return s.stopAll(ctx, pack, req)
		}
		return s.stopOne(ctx, pack, req)
	case StopAll:
		return s.stopAll(ctx, pack, req)
	case List:
		return s.list(pack, req), nil
	case Language:
		return s.language(ctx, pack, req)
	default:
		return rich(pack.Help()), apperrors.ErrValidation.WithMessage("unknown command %q", req.Command)
	}
}

func (s *Service) track(ctx context.Context, pack *locale.Pack, req Request) (Reply, error) {
	id, err := s.links.Parse(req.Argument)
	if err != nil {
		return rich(pack.InvalidCollection(notifier.Escape(req.Argument))), err
	}

	added, err := s.store.Add(ctx, req.Destination, id)
	if err != nil {
		return s.failure(pack, err)
	}
	if !added {
		return rich(pack.AlreadyTrack(notifier.Escape(id))), nil
	}

	s.logger.InfowCtx(ctx, "Tracking started", "collection_id", id, "source", req.Source)
	return rich(pack.TrackStart(notifier.Escape(id))), nil
}

func (s *Service) stopOne(ctx context.Context, pack *locale.Pack, req Request) (Reply, error) {
	id, err := s.links.Parse(req.Argument)
	if err != nil {
		return rich(pack.InvalidCollection(notifier.Escape(req.Argument))), err
	}

	removed, err := s.store.Remove(ctx, req.Destination, id)
	if err != nil {
		return s.failure(pack, err)
	}
	if !removed {
		return rich(pack.NotTracked(notifier.Escape(id))), nil
	}

	s.logger.InfowCtx(ctx, "Tracking stopped", "collection_id", id, "source", req.Source)
	return rich(pack.StopOne(notifier.Escape(id))), nil
}

func (s *Service) stopAll(ctx context.Context, pack *locale.Pack, req Request) (Reply, error) {
	n, err := s.store.Clear(ctx, req.Destination)
	if err != nil {
		return s.failure(pack, err)
	}

	s.logger.InfowCtx(ctx, "All tracking stopped", "collections", n, "source", req.Source)
	return rich(pack.Stop()), nil
}

func (s *Service) list(pack *locale.Pack, req Request) Reply {
	ids := s.store.List(req.Destination)
	if len(ids) == 0 {
		return Reply{Text: pack.NoList(), Format: notifier.FormatPlain}
	}

	var sb strings.Builder
	sb.WriteString(pack.List())
	for _, id := range ids {
		sb.WriteString("\n• ")
		sb.WriteString(notifier.Escape(id))
	}
	return rich(sb.String())
}

func (s *Service) language(ctx context.Context, pack *locale.Pack, req Request) (Reply, error) {
	err := s.store.SetLocale(ctx, req.Destination, req.Argument)
	if err != nil {
		if apperrors.IsValidation(err) {
			return Reply{Text: pack.UnsupportedLanguage(s.locales.Codes()), Format: notifier.FormatPlain}, err
		}
		return s.failure(pack, err)
	}

	return rich(s.locales.Get(req.Argument).LangSet()), nil
}

func (s *Service) failure(pack *locale.Pack, err error) (Reply, error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		err = apperrors.ErrInternal.WithCause(err)
	}
	return Reply{Text: pack.Failure(), Format: notifier.FormatPlain}, err
}

func rich(text string) Reply {
	return Reply{Text: text, Format: notifier.FormatRich}
}
