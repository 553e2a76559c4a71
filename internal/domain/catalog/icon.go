package catalog

import (
	"strings"

	"github.com/aishop/storefront/internal/domain/shared"
)

// Icon is the symbolic name of the glyph shown when a product has no image.
type Icon string

const (
	IconBrain    Icon = "Brain"
	IconCode     Icon = "Code"
	IconGithub   Icon = "Github"
	IconSparkles Icon = "Sparkles"
	IconZap      Icon = "Zap"
	IconBot      Icon = "Bot"
	IconCpu      Icon = "Cpu"
	IconDatabase Icon = "Database"

	// IconPackage is the fallback symbol for names outside the catalog.
	IconPackage Icon = "Package"

	DefaultIcon = IconBrain
)

var knownIcons = []Icon{
	IconBrain, IconCode, IconGithub, IconSparkles,
	IconZap, IconBot, IconCpu, IconDatabase,
}

// Icons lists the selectable icons in display order.
func Icons() []Icon {
	out := make([]Icon, len(knownIcons))
	copy(out, knownIcons)
	return out
}

// IsValid reports whether the icon belongs to the selectable set
func (i Icon) IsValid() bool {
	for _, k := range knownIcons {
		if i == k {
			return true
		}
	}
	return false
}

// Symbol returns the icon to render. Unknown names render as IconPackage.
func (i Icon) Symbol() Icon {
	if i.IsValid() {
		return i
	}
	return IconPackage
}

// ParseIcon validates an icon name. Empty input yields DefaultIcon.
func ParseIcon(s string) (Icon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultIcon, nil
	}
	icon := Icon(s)
	if !icon.IsValid() {
		return "", shared.NewDomainError("INVALID_ICON", "Unknown icon: "+s+" (expected one of "+JoinNames(Icons())+")")
	}
	return icon, nil
}

// Tag is the optional badge shown on a product card.
type Tag string

const (
	TagNone       Tag = ""
	TagBestSeller Tag = "Best Seller"
	TagHot        Tag = "Hot"
	TagNew        Tag = "New"
	TagSale       Tag = "Sale"
)

var knownTags = []Tag{TagBestSeller, TagHot, TagNew, TagSale}

// Tags lists the selectable badges.
func Tags() []Tag {
	out := make([]Tag, len(knownTags))
	copy(out, knownTags)
	return out
}

// IsValid reports whether the tag is TagNone or one of the known badges
func (t Tag) IsValid() bool {
	if t == TagNone {
		return true
	}
	for _, k := range knownTags {
		if t == k {
			return true
		}
	}
	return false
}

// ParseTag validates a tag. Blank input means no badge.
func ParseTag(s string) (Tag, error) {
	tag := Tag(strings.TrimSpace(s))
	if !tag.IsValid() {
		return "", shared.NewDomainError("INVALID_TAG", "Unknown tag: "+s+" (expected one of "+JoinNames(Tags())+")")
	}
	return tag, nil
}

// JoinNames renders icon or tag names as a comma separated list
func JoinNames[T ~string](names []T) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// Currency is the currency code prices are expressed in.
type Currency string

// CurrencyVND is the only supported currency.
const CurrencyVND Currency = "VND"

// ParseCurrency accepts an empty value (defaulting to VND) or VND itself.
func ParseCurrency(s string) (Currency, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || Currency(s) == CurrencyVND {
		return CurrencyVND, nil
	}
	return "", shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency: "+s)
}
