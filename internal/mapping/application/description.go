package application

import (
	"fmt"
	"strings"

	mapping "sunspec-gateway/internal/mapping/domain"
	"sunspec-gateway/internal/mapping/infrastructure/source"
)

// Description data-source tags, recorded on each entry so a resolved table
// can be audited for which tier produced every description.
const (
	SourceStandards   = "standards-description"
	SourceFeedTitle   = "feed-title"
	SourceSynthesized = "synthesized"
	SourceLabel       = "label-fallback"
)

// feed titles that are placeholders rather than descriptions.
var boilerplateTitles = map[string]struct{}{
	"": {}, "NO_DESCR": {}, "N/A": {}, "-": {},
}

// descriptionEnhancements override thin standards text for points whose
// workbook description is missing or unhelpfully terse. Keyed by canonical
// name.
var descriptionEnhancements = map[string]string{
	"Mn":  "Manufacturer name from device common model",
	"Md":  "Device model identifier from common model",
	"Opt": "Device options and features from common model",
	"Vr":  "Firmware version from device common model",
	"SN":  "Device serial number from common model",
	"DA":  "Device Modbus address",

	"PhVphA": "Phase A to neutral voltage measurement",
	"PhVphB": "Phase B to neutral voltage measurement",
	"PhVphC": "Phase C to neutral voltage measurement",

	"DCA_1": "DC current measurement for string 1",
	"DCA_2": "DC current measurement for string 2",
	"DCV_1": "DC voltage measurement for string 1",
	"DCV_2": "DC voltage measurement for string 2",
	"DCW_1": "DC power measurement for string 1",
	"DCW_2": "DC power measurement for string 2",

	"Tmp":     "Battery pack temperature",
	"BattNum": "Number of battery modules in the system",
	"Chc":     "Battery charge cycle count",
	"Dhc":     "Battery discharge cycle count",

	"ECharge":       "Energy charged to battery in current period",
	"EDischarge":    "Energy discharged from battery in current period",
	"ETotCharge":    "Total energy charged to battery since commissioning",
	"ETotDischarge": "Total energy discharged from battery since commissioning",

	"SplitPhase": "Split phase configuration indicator",
	"CountryStd": "Country-specific electrical standard code",
	"SysTime":    "Device system clock",
}

// descriptionInput is everything the tier chain may consult for one entry.
type descriptionInput struct {
	CanonicalName string
	VendorName    string
	Label         string
	Category      mapping.Category
	Models        []mapping.ModelID
	Standards     string
	Feed          *source.FeedMeta
}

// descriptionCandidate produces a candidate description, or reports that its
// tier has nothing usable.
type descriptionCandidate func(in descriptionInput, cfg Heuristics) (text, dataSource string, ok bool)

// descriptionTiers is the fixed priority order. The first candidate that
// accepts wins; evaluation is pure, so the same inputs always re-derive the
// same description.
var descriptionTiers = []descriptionCandidate{
	standardsDescription,
	feedTitleDescription,
	synthesizedDescription,
	labelFallback,
}

// ResolveDescription runs the tier chain for one entry.
func ResolveDescription(in descriptionInput, cfg Heuristics) (string, string) {
	for _, tier := range descriptionTiers {
		if text, dataSource, ok := tier(in, cfg); ok {
			return text, dataSource
		}
	}
	return "Unknown measurement", SourceLabel
}

func standardsDescription(in descriptionInput, _ Heuristics) (string, string, bool) {
	text := strings.TrimSpace(in.Standards)
	if text == "" || text == "N/A" {
		return "", "", false
	}
	// M1 workbook rows all share "... from the common model" boilerplate;
	// the enhancement table has better text for those.
	if len(in.Models) > 0 && in.Models[0] == mapping.ModelCommon &&
		strings.Contains(strings.ToLower(text), "common model") {
		return "", "", false
	}
	return text, SourceStandards, true
}

// feedTitleDescription accepts a vendor feed title only when it reads like a
// description: not a placeholder, not just the point name echoed back, and
// long enough to carry meaning. The word-count floor is a heuristic carried
// from field data, not a precise rule.
func feedTitleDescription(in descriptionInput, cfg Heuristics) (string, string, bool) {
	if in.Feed == nil {
		return "", "", false
	}
	title := strings.TrimSpace(in.Feed.Title)
	if _, bad := boilerplateTitles[title]; bad {
		return "", "", false
	}
	if strings.EqualFold(title, in.VendorName) || strings.EqualFold(title, in.CanonicalName) {
		return "", "", false
	}
	if len(strings.Fields(title)) < cfg.MinFeedTitleWords {
		return "", "", false
	}
	return title, SourceFeedTitle + ":" + in.Feed.Origin, true
}

func synthesizedDescription(in descriptionInput, _ Heuristics) (string, string, bool) {
	if text, ok := descriptionEnhancements[in.CanonicalName]; ok {
		return text, SourceSynthesized, true
	}
	if in.Label != "" && in.Category != mapping.CategoryUnknown && len(in.Models) > 0 {
		return fmt.Sprintf("%s (%s, model %s)", in.Label, in.Category, in.Models[0]), SourceSynthesized, true
	}
	return "", "", false
}

func labelFallback(in descriptionInput, _ Heuristics) (string, string, bool) {
	if in.Label == "" {
		return "", "", false
	}
	return in.Label, SourceLabel, true
}
