package model

import (
	"fmt"
	"strings"
)

// LinkType is the closed vocabulary of auxiliary venue links.
type LinkType string

const (
	LinkReview    LinkType = "review"
	LinkFacebook  LinkType = "facebook"
	LinkInstagram LinkType = "instagram"
	LinkOther     LinkType = "other"
)

// ParseLinkType maps a data-file type tag onto the closed vocabulary.
// Review sites collapse to LinkReview; anything unrecognised is LinkOther.
func ParseLinkType(s string) LinkType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "review", "google_reviews", "tripadvisor", "yelp":
		return LinkReview
	case "facebook":
		return LinkFacebook
	case "instagram":
		return LinkInstagram
	default:
		return LinkOther
	}
}

// Icon returns the display icon for t. Every LinkType must have a case here.
func (t LinkType) Icon() string {
	switch t {
	case LinkReview:
		return "star"
	case LinkFacebook:
		return "facebook"
	case LinkInstagram:
		return "instagram"
	case LinkOther:
		return "link"
	}
	panic(fmt.Sprintf("model: no icon for link type %q", string(t)))
}

// Link is an auxiliary link shown on a venue card. Kind keeps the tag as
// written in the data file so documents round-trip unchanged.
type Link struct {
	Kind  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Type returns the link's position in the closed vocabulary.
func (l Link) Type() LinkType {
	return ParseLinkType(l.Kind)
}
