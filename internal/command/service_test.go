package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftrelay/internal/events"
	"nftrelay/internal/locale"
	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	"nftrelay/internal/subscription"
	apperrors "nftrelay/pkg/errors"
)

type fakePersister struct {
	mu    sync.Mutex
	state subscription.State
	fail  bool
}

func (p *fakePersister) Load(context.Context) (subscription.State, error) {
	return subscription.State{}, nil
}

func (p *fakePersister) Put(_ context.Context, dest string, rec subscription.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("write failed")
	}
	p.state[dest] = rec
	return nil
}

func (p *fakePersister) Delete(_ context.Context, dest string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("write failed")
	}
	delete(p.state, dest)
	return nil
}

type fixture struct {
	svc       *Service
	store     *subscription.Store
	persister *fakePersister
	locales   *locale.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := &fakePersister{state: subscription.State{}}
	locales := locale.NewRegistry("en")
	store := subscription.NewStore(p, locales, logger.NopLogger())
	require.NoError(t, store.Load(context.Background()))

	return &fixture{
		svc:       NewService(store, locales, events.NewCollectionParser([]string{"xrp.cafe"}), logger.NopLogger()),
		store:     store,
		persister: p,
		locales:   locales,
	}
}

func (f *fixture) run(t *testing.T, cmd Name, arg string) (Reply, error) {
	t.Helper()
	return f.svc.Execute(context.Background(), Request{
		Destination: "1001",
		Command:     cmd,
		Argument:    arg,
		Source:      SourceTelegram,
	})
}

func TestService_TrackAndAlreadyTracked(t *testing.T) {
	f := newFixture(t)
	en := f.locales.Get("en")

	reply, err := f.run(t, Track, "abc123")
	require.NoError(t, err)
	assert.Equal(t, en.TrackStart("abc123"), reply.Text)
	assert.Equal(t, notifier.FormatRich, reply.Format)

	reply, err = f.run(t, Track, "abc123")
	require.NoError(t, err)
	assert.Equal(t, en.AlreadyTrack("abc123"), reply.Text)

	assert.Equal(t, []string{"abc123"}, f.store.List("1001"))
}

func TestService_TrackFromLink(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, Track, "https://xrp.cafe/collection/beard-nft")
	require.NoError(t, err)

	assert.Equal(t, []string{"beard-nft"}, f.store.List("1001"))
}

func TestService_TrackInvalid(t *testing.T) {
	f := newFixture(t)
	en := f.locales.Get("en")

	reply, err := f.run(t, Track, "not valid")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, en.InvalidCollection("not valid"), reply.Text)
	assert.Empty(t, f.store.List("1001"))
}

func TestService_RepliesEscapeUserInput(t *testing.T) {
	f := newFixture(t)

	reply, err := f.run(t, Track, "beard_nft_01")
	require.NoError(t, err)
	assert.Equal(t, "✅ Started tracking <b>beard_nft_01</b>", reply.Text)

	reply, err = f.run(t, Track, "<b>x & y")
	require.Error(t, err)
	assert.Contains(t, reply.Text, "&lt;b&gt;x &amp; y")
	assert.NotContains(t, reply.Text, "<b>x")
}

func TestService_PersistFailure(t *testing.T) {
	f := newFixture(t)
	f.persister.fail = true

	reply, err := f.run(t, Track, "abc123")
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Equal(t, f.locales.Get("en").Failure(), reply.Text)
	assert.Empty(t, f.store.List("1001"))
}

func TestService_StopOneAndNotTracked(t *testing.T) {
	f := newFixture(t)
	en := f.locales.Get("en")

	_, err := f.run(t, Track, "abc123")
	require.NoError(t, err)
	_, err = f.run(t, Track, "def456")
	require.NoError(t, err)

	reply, err := f.run(t, Stop, "abc123")
	require.NoError(t, err)
	assert.Equal(t, en.StopOne("abc123"), reply.Text)
	assert.Equal(t, []string{"def456"}, f.store.List("1001"))

	reply, err = f.run(t, Stop, "abc123")
	require.NoError(t, err)
	assert.Equal(t, en.NotTracked("abc123"), reply.Text)
}

func TestService_StopWithoutArgumentStopsAll(t *testing.T) {
	for _, cmd := range []Name{Stop, StopAll} {
		t.Run(string(cmd), func(t *testing.T) {
			f := newFixture(t)
			_, err := f.run(t, Track, "abc123")
			require.NoError(t, err)
			_, err = f.run(t, Track, "def456")
			require.NoError(t, err)

			reply, err := f.run(t, cmd, "")
			require.NoError(t, err)
			assert.Equal(t, f.locales.Get("en").Stop(), reply.Text)
			assert.Empty(t, f.store.List("1001"))
		})
	}
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	en := f.locales.Get("en")

	reply, err := f.run(t, List, "")
	require.NoError(t, err)
	assert.Equal(t, en.NoList(), reply.Text)
	assert.Equal(t, notifier.FormatPlain, reply.Format)

	_, err = f.run(t, Track, "zeta")
	require.NoError(t, err)
	_, err = f.run(t, Track, "alpha")
	require.NoError(t, err)

	reply, err = f.run(t, List, "")
	require.NoError(t, err)
	assert.Equal(t, en.List()+"\n• alpha\n• zeta", reply.Text)
}

func TestService_Language(t *testing.T) {
	f := newFixture(t)

	reply, err := f.run(t, Language, "fr")
	require.NoError(t, err)
	assert.Equal(t, f.locales.Get("fr").LangSet(), reply.Text)
	assert.Equal(t, "fr", f.store.Locale("1001"))

	reply, err = f.run(t, Start, "")
	require.NoError(t, err)
	assert.Equal(t, f.locales.Get("fr").Start(), reply.Text)
}

func TestService_LanguageUnsupported(t *testing.T) {
	f := newFixture(t)

	reply, err := f.run(t, Language, "xx")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, f.locales.Get("en").UnsupportedLanguage(f.locales.Codes()), reply.Text)
	assert.Equal(t, "en", f.store.Locale("1001"))
}

func TestService_UnknownCommand(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, Name("dance"), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_MissingDestination(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Execute(context.Background(), Request{Command: List})
	assert.True(t, apperrors.IsValidation(err))
}
