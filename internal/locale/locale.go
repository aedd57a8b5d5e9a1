package locale

import (
	"fmt"
	"sort"
	"strings"

	"nftrelay/internal/events"
)

const DefaultCode = "en"

// Pack is the set of user-facing templates for one language. Arguments passed
// to the formatting methods must already be escaped for the output markup.
type Pack struct {
	Code string

	start               string
	help                string
	trackStart          string
	alreadyTrack        string
	stop                string
	stopOne             string
	notTracked          string
	list                string
	noList              string
	langSet             string
	unsupportedLanguage string
	invalidCollection   string
	failure             string
	viewOnExplorer      string
	typeLabels          map[events.Type]string
}

func (p *Pack) Start() string {
	return p.start
}

func (p *Pack) Help() string {
	return p.help
}

func (p *Pack) Stop() string {
	return p.stop
}

func (p *Pack) List() string {
	return p.list
}

func (p *Pack) NoList() string {
	return p.noList
}

func (p *Pack) LangSet() string {
	return p.langSet
}

func (p *Pack) Failure() string {
	return p.failure
}

func (p *Pack) ViewOnExplorer() string {
	return p.viewOnExplorer
}

func (p *Pack) TrackStart(id string) string {
	return fmt.Sprintf(p.trackStart, id)
}

func (p *Pack) AlreadyTrack(id string) string {
	return fmt.Sprintf(p.alreadyTrack, id)
}

func (p *Pack) StopOne(id string) string {
	return fmt.Sprintf(p.stopOne, id)
}

func (p *Pack) NotTracked(id string) string {
	return fmt.Sprintf(p.notTracked, id)
}

func (p *Pack) UnsupportedLanguage(supported []string) string {
	return fmt.Sprintf(p.unsupportedLanguage, strings.Join(supported, ", "))
}

func (p *Pack) InvalidCollection(input string) string {
	return fmt.Sprintf(p.invalidCollection, input)
}

// TypeLabel is the localized, upper-cased event type.
func (p *Pack) TypeLabel(t events.Type) string {
	if label, ok := p.typeLabels[t]; ok {
		return label
	}
	return strings.ToUpper(string(t))
}

type Registry struct {
	packs       map[string]*Pack
	defaultCode string
}

// NewRegistry returns the built-in languages. An unknown defaultCode falls
// back to English.
func NewRegistry(defaultCode string) *Registry {
	r := &Registry{packs: make(map[string]*Pack, len(builtin))}
	for _, p := range builtin {
		r.packs[p.Code] = p
	}

	r.defaultCode = DefaultCode
	if _, ok := r.packs[normalize(defaultCode)]; ok {
		r.defaultCode = normalize(defaultCode)
	}
	return r
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (r *Registry) DefaultCode() string {
	return r.defaultCode
}

// Get resolves code, falling back to the default pack for unknown codes.
func (r *Registry) Get(code string) *Pack {
	if p, ok := r.packs[normalize(code)]; ok {
		return p
	}
	return r.packs[r.defaultCode]
}

// Normalize returns the canonical form of a supported code.
func (r *Registry) Normalize(code string) (string, bool) {
	code = normalize(code)
	_, ok := r.packs[code]
	return code, ok
}

func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.packs))
	for code := range r.packs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
