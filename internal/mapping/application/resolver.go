package application

import (
	"fmt"
	"log"
	"sort"
	"strings"

	mapping "sunspec-gateway/internal/mapping/domain"
	"sunspec-gateway/internal/mapping/infrastructure/source"
)

// Inputs carries everything one resolution run consumes: the standards
// definitions from both workbooks plus the captured REST vocabularies of the
// two datalogger families.
type Inputs struct {
	Standards []source.StandardsDefinition

	VSN300Live  map[string]struct{}
	VSN300Feeds map[string]source.FeedMeta
	VSN300Status []source.StatusPoint

	VSN700Live  map[string]struct{}
	VSN700Feeds map[string]source.FeedMeta
	VSN700Status []source.StatusPoint
}

// Report summarizes one resolution run for the build log and the XLSX/PDF
// reports.
type Report struct {
	Resolved        int
	Dropped         []string
	UnknownCategory []string
	Warnings        []string

	// UnmatchedCorrections lists correction rule keys that matched nothing,
	// per pass. Stale keys here usually mean a rename upstream.
	UnmatchedCorrections map[string][]string
	PassChecksum         string
}

// Resolver reconciles the vendor vocabularies against the standards
// definitions into a canonical mapping table.
type Resolver struct {
	logger *log.Logger
	cfg    Heuristics
}

// NewResolver creates a resolver. A nil logger falls back to the default.
func NewResolver(logger *log.Logger, cfg Heuristics) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MinFeedTitleWords <= 0 {
		cfg.MinFeedTitleWords = 2
	}
	return &Resolver{logger: logger, cfg: cfg}
}

// draft is one canonical entry under construction, with the resolution-time
// context the final table does not keep.
type draft struct {
	entry     mapping.CanonicalMappingEntry
	standards *source.StandardsDefinition
	feed      *source.FeedMeta
}

// Resolve runs the full resolution: vocabulary walk, alias merge, metadata
// derivation, correction passes, validation. Input maps are walked in sorted
// key order, so the same inputs always produce the same table.
func (r *Resolver) Resolve(in Inputs) (*mapping.Table, Report, error) {
	report := Report{}

	standardsByKey := make(map[string]*source.StandardsDefinition)
	for i := range in.Standards {
		def := &in.Standards[i]
		key := string(def.Model) + "/" + def.PointName
		prev, exists := standardsByKey[key]
		// Open-standard definitions win ties against vendor-extension ones.
		if exists && !prev.Proprietary {
			continue
		}
		standardsByKey[key] = def
	}

	drafts := make(map[string]*draft)
	observed := make(map[string]bool)

	claim := func(canonical string) *draft {
		d, ok := drafts[canonical]
		if !ok {
			d = &draft{entry: mapping.CanonicalMappingEntry{CanonicalName: canonical}}
			drafts[canonical] = d
		}
		return d
	}

	// VSN300 first: its SunSpec-prefixed names carry the model, which anchors
	// the standards lookup the VSN700 side then merges into.
	for _, wireName := range sortedKeys(in.VSN300Live) {
		model, bare := ParseVSN300Name(wireName)
		canonical := bare
		d := claim(canonical)
		if d.entry.VSN300Name != "" && d.entry.VSN300Name != wireName {
			// Multi-instance devices repeat a point per instance; the first
			// instance wins and the rest are noted, not mapped.
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("vsn300: %s already mapped to %s, ignoring %s", canonical, d.entry.VSN300Name, wireName))
			continue
		}
		d.entry.VSN300Name = wireName
		d.entry.InLiveData = true

		switch {
		case model != "":
			d.entry.AddModel(model)
			if def, ok := standardsByKey[string(model)+"/"+bare]; ok {
				d.standards = def
				d.entry.AvailableInModbus = true
				observed[string(model)+"/"+bare] = true
			}
		case mapping.IsVendorModelPoint(bare):
			d.entry.AddModel(mapping.ModelVendor)
			if def, ok := standardsByKey[string(mapping.ModelVendor)+"/"+bare]; ok {
				d.standards = def
				d.entry.AvailableInModbus = true
				observed[string(mapping.ModelVendor)+"/"+bare] = true
			}
		case mapping.IsProprietaryPoint(bare):
			d.entry.AddModel(mapping.ModelProprietary)
		default:
			d.entry.AddModel(mapping.ModelVSN300Only)
			d.entry.VendorOnly = true
		}
	}

	// VSN700: proprietary names reach their canonical identity through the
	// alias table; points the table does not cover stay vendor-only.
	for _, wireName := range sortedKeys(in.VSN700Live) {
		alias, aliased := mapping.ResolveAlias(wireName)
		canonical := wireName
		if aliased {
			canonical = alias.Canonical
		}
		d := claim(canonical)
		if d.entry.VSN700Name != "" && d.entry.VSN700Name != wireName {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("vsn700: %s already mapped to %s, ignoring %s", canonical, d.entry.VSN700Name, wireName))
			continue
		}
		d.entry.VSN700Name = wireName
		d.entry.InLiveData = true

		switch {
		case aliased:
			d.entry.AddModel(alias.Model)
			if alias.Unit != "" && d.entry.Unit == "" {
				d.entry.Unit = alias.Unit
			}
			if alias.DeviceClass != "" && d.entry.DeviceClass == "" {
				d.entry.DeviceClass = alias.DeviceClass
			}
			if alias.StateClass != "" && d.entry.StateClass == "" {
				d.entry.StateClass = alias.StateClass
			}
			if alias.InModbus {
				d.entry.AvailableInModbus = true
			}
			if def, ok := standardsByKey[string(alias.Model)+"/"+canonical]; ok {
				if d.standards == nil || (d.standards.Proprietary && !def.Proprietary) {
					d.standards = def
				}
				observed[string(alias.Model)+"/"+canonical] = true
			}
		case mapping.IsVendorModelPoint(wireName):
			d.entry.AddModel(mapping.ModelVendor)
			if def, ok := standardsByKey[string(mapping.ModelVendor)+"/"+wireName]; ok {
				if d.standards == nil {
					d.standards = def
				}
				d.entry.AvailableInModbus = true
				observed[string(mapping.ModelVendor)+"/"+wireName] = true
			}
		case mapping.IsProprietaryPoint(wireName):
			d.entry.AddModel(mapping.ModelProprietary)
		default:
			d.entry.AddModel(mapping.ModelVSN700Only)
			d.entry.VendorOnly = true
		}
	}

	// Feed metadata: marks presence and contributes title/unit. A feed name
	// with no livedata counterpart still becomes an entry; feeds carry the
	// accumulation counters livedata omits.
	r.applyFeeds(in.VSN300Feeds, mapping.VocabularyVSN300, claim)
	r.applyFeeds(in.VSN700Feeds, mapping.VocabularyVSN700, claim)

	// Status endpoints contribute datalogger diagnostics.
	r.applyStatus(in.VSN300Status, mapping.ModelVSN300Only, claim, func(e *mapping.CanonicalMappingEntry, n string) { e.VSN300Name = n })
	r.applyStatus(in.VSN700Status, mapping.ModelVSN700Only, claim, func(e *mapping.CanonicalMappingEntry, n string) { e.VSN700Name = n })

	// Standards definitions nobody observed are dropped, not invented:
	// the table maps what dataloggers actually report.
	for _, key := range sortedKeys(standardsByKey) {
		if !observed[key] {
			report.Dropped = append(report.Dropped, key)
		}
	}
	if len(report.Dropped) > 0 {
		r.logger.Printf("mapgen: dropped %d standards definitions with no observed wire point", len(report.Dropped))
	}

	pipeline, err := NewPipeline()
	if err != nil {
		return nil, report, err
	}

	entries := make([]mapping.CanonicalMappingEntry, 0, len(drafts))
	for _, canonical := range sortedKeys(drafts) {
		d := drafts[canonical]
		r.finish(canonical, d)
		pipeline.Apply(&d.entry)
		// Entity names derive from corrected labels so dashboards and the
		// label text never disagree.
		d.entry.EntityName = EntityName(d.entry.Label)
		if d.entry.DisplayName == "" {
			d.entry.DisplayName = d.entry.Label
		}
		if d.entry.Category == mapping.CategoryUnknown {
			report.UnknownCategory = append(report.UnknownCategory, canonical)
		}
		entries = append(entries, d.entry)
	}

	report.UnmatchedCorrections = pipeline.Unmatched()
	report.PassChecksum = pipeline.Checksum()
	for pass, keys := range report.UnmatchedCorrections {
		r.logger.Printf("mapgen: %d unmatched %s correction rules: %s", len(keys), pass, strings.Join(keys, ", "))
	}

	table, err := mapping.NewTable(entries)
	if err != nil {
		return nil, report, err
	}
	report.Resolved = table.Len()
	if len(report.UnknownCategory) > 0 {
		r.logger.Printf("mapgen: %d entries resolved with Unknown category: %s",
			len(report.UnknownCategory), strings.Join(report.UnknownCategory, ", "))
	}
	return table, report, nil
}

func (r *Resolver) applyFeeds(feeds map[string]source.FeedMeta, vocab mapping.Vocabulary, claim func(string) *draft) {
	for _, wireName := range sortedKeys(feeds) {
		meta := feeds[wireName]
		canonical := wireName
		switch vocab {
		case mapping.VocabularyVSN300:
			if _, bare := ParseVSN300Name(wireName); bare != "" {
				canonical = bare
			}
		case mapping.VocabularyVSN700:
			if alias, ok := mapping.ResolveAlias(wireName); ok {
				canonical = alias.Canonical
			}
		}
		d := claim(canonical)
		d.entry.InFeeds = true
		if vocab == mapping.VocabularyVSN300 && d.entry.VSN300Name == "" {
			d.entry.VSN300Name = wireName
			if model, _ := ParseVSN300Name(wireName); model != "" {
				d.entry.AddModel(model)
			} else {
				d.entry.AddModel(mapping.ModelVSN300Only)
				d.entry.VendorOnly = len(d.entry.Models) == 1
			}
		}
		if vocab == mapping.VocabularyVSN700 && d.entry.VSN700Name == "" {
			d.entry.VSN700Name = wireName
			if alias, ok := mapping.ResolveAlias(wireName); ok {
				d.entry.AddModel(alias.Model)
			} else if mapping.IsProprietaryPoint(wireName) {
				d.entry.AddModel(mapping.ModelProprietary)
			} else {
				d.entry.AddModel(mapping.ModelVSN700Only)
				d.entry.VendorOnly = len(d.entry.Models) == 1
			}
		}
		if d.feed == nil {
			m := meta
			d.feed = &m
		}
	}
}

func (r *Resolver) applyStatus(points []source.StatusPoint, model mapping.ModelID, claim func(string) *draft, setName func(*mapping.CanonicalMappingEntry, string)) {
	sorted := make([]source.StatusPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, p := range sorted {
		d := claim(p.Name)
		setName(&d.entry, p.Name)
		d.entry.AddModel(model)
		d.entry.VendorOnly = true
		d.entry.EntityCategory = mapping.EntityCategoryDiagnostic
		if d.entry.Label == "" && p.Label != "" {
			d.entry.Label = p.Label
		}
	}
}

// finish derives the presentation metadata for one draft: label, category,
// description and its recorded source tier.
func (r *Resolver) finish(canonical string, d *draft) {
	if d.standards != nil && d.entry.Label == "" && d.standards.Label != "" {
		d.entry.Label = d.standards.Label
	}
	// Unit precedence: alias table, then standards workbook, then feed
	// metadata. The feed only fills points the workbooks never describe.
	if d.entry.Unit == "" {
		switch {
		case d.standards != nil && d.standards.Unit != "":
			d.entry.Unit = d.standards.Unit
		case d.feed != nil && d.feed.Unit != "":
			d.entry.Unit = d.feed.Unit
		}
	}
	if d.entry.Label == "" {
		name := canonical
		if d.entry.VSN700Name != "" {
			name = d.entry.VSN700Name
		}
		d.entry.Label = GenerateLabel(name)
	}

	// Alias hits carry their category from the alias table; everything else
	// is classified from label, description and model flags.
	if alias, ok := mapping.ResolveAlias(d.entry.VSN700Name); ok && alias.Category != "" {
		d.entry.Category = alias.Category
	}
	if d.entry.Category == "" {
		standardsDesc := ""
		if d.standards != nil {
			standardsDesc = d.standards.Description
		}
		d.entry.Category = Classify(d.entry.Label, standardsDesc, d.entry.Models, d.entry.VSN300Name, d.entry.VSN700Name)
	}

	standardsText := ""
	if d.standards != nil {
		standardsText = d.standards.Description
	}
	vendorName := d.entry.VSN700Name
	if vendorName == "" {
		vendorName = d.entry.VSN300Name
	}
	desc, dataSource := ResolveDescription(descriptionInput{
		CanonicalName: canonical,
		VendorName:    vendorName,
		Label:         d.entry.Label,
		Category:      d.entry.Category,
		Models:        d.entry.Models,
		Standards:     standardsText,
		Feed:          d.feed,
	}, r.cfg)
	d.entry.Description = desc
	d.entry.DataSource = dataSource

	if d.entry.StateClass == "" {
		d.entry.StateClass = inferStateClass(d.entry.Unit, d.entry.Category)
	}
}

// inferStateClass picks a state class from the unit when no alias or
// standards definition supplied one. Counters accumulate, measurements do not.
func inferStateClass(unit string, category mapping.Category) string {
	switch unit {
	case "Wh", "kWh", "MWh":
		return "total_increasing"
	case "W", "var", "VA", "V", "A", "Hz", "%", "°C":
		return "measurement"
	}
	if category == mapping.CategoryEnergyCounter {
		return "total_increasing"
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
