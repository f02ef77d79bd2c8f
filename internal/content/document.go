// Package content defines the site content document and the editing
// primitives over it: dot-path access and collection normalization.
package content

import (
	"encoding/json"
	"fmt"
)

// Document is the whole site content as an untyped JSON tree. No field is
// required; readers decode the regions they need and tolerate absence.
type Document = map[string]any

// Typed views of the top-level regions. They exist for readers that want
// structure; the document itself stays schemaless and a region is only
// decoded where it is actually read.

type Hero struct {
	TitleLine1  string   `json:"titleLine1,omitempty"`
	TitleLine2  string   `json:"titleLine2,omitempty"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type About struct {
	Label           string    `json:"label,omitempty"`
	TitleLine1      string    `json:"titleLine1,omitempty"`
	TitleHighlight  string    `json:"titleHighlight,omitempty"`
	Lead            string    `json:"lead,omitempty"`
	Text            string    `json:"text,omitempty"`
	ExperienceYears any       `json:"experienceYears,omitempty"`
	Features        []Feature `json:"features,omitempty"`
}

type MenuItem struct {
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

type GalleryItem struct {
	Image string `json:"image"`
	Alt   string `json:"alt"`
	Tall  bool   `json:"tall"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Hours   string `json:"hours,omitempty"`
}

type CTA struct {
	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
	Primary     string `json:"primary,omitempty"`
	Secondary   string `json:"secondary,omitempty"`
}

type MapSection struct {
	Description string `json:"description,omitempty"`
}

// DecodeHero reads the hero region. An absent region decodes to the zero
// value; only a region that is present but structurally wrong errors.
func DecodeHero(d Document) (Hero, error) {
	var hero Hero
	err := decodeRegion(d, "hero", &hero)
	return hero, err
}

func DecodeAbout(d Document) (About, error) {
	var about About
	err := decodeRegion(d, "about", &about)
	return about, err
}

func DecodeMenu(d Document) ([]MenuItem, error) {
	var items []MenuItem
	err := decodeRegion(d, "menu", &items)
	return items, err
}

func DecodeGallery(d Document) ([]GalleryItem, error) {
	var items []GalleryItem
	err := decodeRegion(d, "gallery", &items)
	return items, err
}

func DecodeSocial(d Document) ([]SocialLink, error) {
	var links []SocialLink
	err := decodeRegion(d, "social", &links)
	return links, err
}

func DecodeContact(d Document) (Contact, error) {
	var contact Contact
	err := decodeRegion(d, "contact", &contact)
	return contact, err
}

func DecodeCTA(d Document) (CTA, error) {
	var cta CTA
	err := decodeRegion(d, "cta", &cta)
	return cta, err
}

func DecodeMap(d Document) (MapSection, error) {
	var section MapSection
	err := decodeRegion(d, "map", &section)
	return section, err
}

func decodeRegion(d Document, name string, target any) error {
	if d == nil {
		return nil
	}
	raw, ok := d[name]
	if !ok || raw == nil {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s region: %w", name, err)
	}
	if err := json.Unmarshal(encoded, target); err != nil {
		return fmt.Errorf("decode %s region: %w", name, err)
	}
	return nil
}

// Clone deep-copies a document through a JSON round-trip so an editor's
// working copy never aliases the loaded one.
func Clone(d Document) (Document, error) {
	if d == nil {
		return Document{}, nil
	}
	encoded, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var copied Document
	if err := json.Unmarshal(encoded, &copied); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if copied == nil {
		copied = Document{}
	}
	return copied, nil
}
