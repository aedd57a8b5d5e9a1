package events

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "nftrelay/pkg/errors"
)

var collectionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// CollectionParser turns user input into a CollectionId. Input is either the
// id itself or a link to a collection page on one of the configured
// marketplace hosts, in which case the last non-empty path segment is used.
type CollectionParser struct {
	hosts []string
}

func NewCollectionParser(hosts []string) *CollectionParser {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			normalized = append(normalized, h)
		}
	}
	return &CollectionParser{hosts: normalized}
}

func (p *CollectionParser) Parse(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", apperrors.ErrValidation.WithMessage("collection id is required")
	}

	if p.looksLikeLink(input) {
		return p.parseLink(input)
	}

	if err := ValidateCollectionID(input); err != nil {
		return "", err
	}
	return input, nil
}

// IsLink reports whether input points at a configured marketplace.
func (p *CollectionParser) IsLink(input string) bool {
	input = strings.TrimSpace(input)
	if !p.looksLikeLink(input) {
		return false
	}
	_, err := p.parseLink(input)
	return err == nil
}

func (p *CollectionParser) looksLikeLink(input string) bool {
	if strings.Contains(input, "://") {
		return true
	}
	lower := strings.ToLower(input)
	for _, h := range p.hosts {
		if strings.HasPrefix(lower, h+"/") || strings.HasPrefix(lower, "www."+h+"/") {
			return true
		}
	}
	return false
}

func (p *CollectionParser) parseLink(input string) (string, error) {
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return "", apperrors.ErrValidation.WithMessage("invalid collection link %q", input)
	}

	if !p.allowedHost(u.Hostname()) {
		return "", apperrors.ErrValidation.
			WithMessage("unsupported marketplace host %q", u.Hostname()).
			WithDetail("host", u.Hostname())
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", apperrors.ErrValidation.WithMessage("collection link %q has no collection id", input)
	}

	if err := ValidateCollectionID(id); err != nil {
		return "", err
	}
	return id, nil
}

func (p *CollectionParser) allowedHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, h := range p.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func ValidateCollectionID(id string) error {
	if !collectionIDPattern.MatchString(id) {
		return apperrors.ErrValidation.
			WithMessage("invalid collection id %q", id).
			WithDetail("collection_id", id)
	}
	return nil
}
