package layouts

import (
	"strings"
	"time"

	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Section names one of the three independently-writable layout areas.
type Section string

const (
	SectionHeader Section = "header"
	SectionFooter Section = "footer"
	SectionMenu   Section = "menu"
)

// ParseSection resolves a section name from a path segment.
func ParseSection(input string) (Section, bool) {
	switch Section(strings.ToLower(strings.TrimSpace(input))) {
	case SectionHeader:
		return SectionHeader, true
	case SectionFooter:
		return SectionFooter, true
	case SectionMenu:
		return SectionMenu, true
	}
	return "", false
}

// Layout is the one-per-brand singleton holding header, footer and menu.
// Each section keeps its builder draft separate from its published payload;
// the version and status columns are shared and cover whichever section was
// most recently published.
type Layout struct {
	bun.BaseModel `bun:"table:brand_layouts,alias:bl"`

	BrandID uuid.UUID `bun:"brand_id,pk,type:uuid" json:"brand_id"`

	HeaderDraft map[string]any `bun:"header_draft,type:jsonb" json:"header_draft,omitempty"`
	FooterDraft map[string]any `bun:"footer_draft,type:jsonb" json:"footer_draft,omitempty"`
	MenuDraft   map[string]any `bun:"menu_draft,type:jsonb" json:"menu_draft,omitempty"`

	HeaderHTML    string         `bun:"header_html" json:"header_html,omitempty"`
	FooterHTML    string         `bun:"footer_html" json:"footer_html,omitempty"`
	MenuPublished map[string]any `bun:"menu_published,type:jsonb" json:"menu_json,omitempty"`

	Status      domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	Version     int64         `bun:"version,notnull,default:1" json:"version"`
	PublishedAt *time.Time    `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PublishedLayout is the public projection served without authentication.
// Brands with no layout row get the zero value.
type PublishedLayout struct {
	HeaderHTML string         `json:"header_html"`
	FooterHTML string         `json:"footer_html"`
	MenuJSON   map[string]any `json:"menu_json"`
	Version    int64          `json:"version"`
}

// WriteResult reports the post-write identity and version of the singleton.
type WriteResult struct {
	BrandID   uuid.UUID     `json:"brand_id"`
	Section   Section       `json:"section"`
	Version   int64         `json:"version"`
	Status    domain.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}
