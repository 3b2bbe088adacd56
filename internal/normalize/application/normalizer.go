package application

import (
	"errors"
	"fmt"
	"log"
	"time"

	mapping "sunspec-gateway/internal/mapping/domain"
	normalize "sunspec-gateway/internal/normalize/domain"
	"sunspec-gateway/internal/observability/metrics"
)

// Normalizer projects raw device snapshots onto the canonical mapping table.
// The table is immutable, so one normalizer serves concurrent requests.
type Normalizer struct {
	logger *log.Logger
	table  *mapping.Table
	trans  *Transformer
}

// NewNormalizer creates a normalizer over a loaded table.
func NewNormalizer(table *mapping.Table, trans *Transformer, logger *log.Logger) (*Normalizer, error) {
	if table == nil {
		return nil, errors.New("normalizer: nil mapping table")
	}
	if trans == nil {
		trans = NewTransformer(DefaultTransformConfig())
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{logger: logger, table: table, trans: trans}, nil
}

// Normalize converts one snapshot. Unknown wire names and unconvertible
// values are reported in the result, not returned as errors: one bad point
// never poisons a whole poll.
func (n *Normalizer) Normalize(snap normalize.Snapshot) (normalize.Result, error) {
	start := time.Now()
	if !snap.Vocabulary.Valid() {
		metrics.ObserveNormalize(metrics.ResultError, time.Since(start))
		return normalize.Result{}, fmt.Errorf("normalizer: unknown vocabulary %q", snap.Vocabulary)
	}
	at := snap.At
	if at.IsZero() {
		at = start.UTC()
	}

	res := normalize.Result{DeviceID: snap.DeviceID}
	seen := make(map[string]string, len(snap.Points))

	for _, raw := range snap.Points {
		entry, ok := n.table.ByVendorName(snap.Vocabulary, raw.Name)
		if !ok {
			n.logger.Printf("normalize: %s: unknown %s point %q", snap.DeviceID, snap.Vocabulary, raw.Name)
			metrics.IncUnknownPoint(string(snap.Vocabulary))
			res.Unknown = append(res.Unknown, raw.Name)
			continue
		}
		if prev, dup := seen[entry.CanonicalName]; dup {
			// First wins. Multi-instance payloads repeat canonical points;
			// instance-aware mapping is a table concern, not a poll concern.
			n.logger.Printf("normalize: %s: %s collides with already mapped %s, keeping first", snap.DeviceID, raw.Name, prev)
			metrics.IncPointCollision(string(snap.Vocabulary))
			continue
		}

		point, err := n.normalizePoint(entry, snap.Vocabulary, raw, at)
		if err != nil {
			n.logger.Printf("normalize: %s: %v", snap.DeviceID, err)
			metrics.IncTransformFailure(string(snap.Vocabulary))
			res.Failed = append(res.Failed, raw.Name)
			continue
		}
		seen[entry.CanonicalName] = raw.Name
		res.Points = append(res.Points, point)
	}

	metrics.AddNormalizedPoints(string(snap.Vocabulary), len(res.Points))
	metrics.ObserveNormalize(metrics.ResultSuccess, time.Since(start))
	return res, nil
}

func (n *Normalizer) normalizePoint(entry mapping.CanonicalMappingEntry, vocab mapping.Vocabulary, raw normalize.RawPoint, at time.Time) (normalize.NormalizedPoint, error) {
	point := normalize.NormalizedPoint{
		CanonicalName:    entry.CanonicalName,
		EntityName:       entry.EntityName,
		WireName:         raw.Name,
		Unit:             entry.Unit,
		Label:            entry.Label,
		DisplayName:      entry.DisplayName,
		Category:         string(entry.Category),
		DeviceClass:      entry.DeviceClass,
		StateClass:       entry.StateClass,
		EntityCategory:   entry.EntityCategory,
		Icon:             entry.Icon,
		VSN300Compatible: entry.CompatibleWithVSN300(),
		VSN700Compatible: entry.CompatibleWithVSN700(),
		Timestamp:        at,
	}

	// State machines: numeric code in, translated text out, raw code kept.
	if _, isState := StateTableFor(entry.CanonicalName); isState {
		v, ok := toFloat(raw.Value)
		if !ok {
			return point, &TransformError{Canonical: entry.CanonicalName, Value: raw.Value, Reason: "state code not numeric"}
		}
		code := int64(v)
		label, _ := TranslateState(entry.CanonicalName, code)
		if _, known := mustStateTable(entry.CanonicalName)[code]; !known {
			metrics.IncUnknownStateCode(entry.CanonicalName)
		}
		point.Value = label
		point.RawCode = &code
		return point, nil
	}

	// Device clock: reported in the firmware epoch, served as UTC. The
	// reading becomes the point's own timestamp too.
	if entry.CanonicalName == "SysTime" {
		ts, err := DeviceTime(raw.Value)
		if err != nil {
			return point, err
		}
		point.Value = ts.Format(time.RFC3339)
		point.Timestamp = ts
		return point, nil
	}

	if entry.EntityName == "system_uptime" {
		v, ok := toFloat(raw.Value)
		if !ok {
			return point, &TransformError{Canonical: entry.CanonicalName, Value: raw.Value, Reason: "uptime not numeric"}
		}
		point.Value = FormatUptime(v)
		return point, nil
	}

	// Textual identity points pass through untouched.
	if entry.Unit == "" && entry.DeviceClass == "" {
		if s, ok := raw.Value.(string); ok {
			point.Value = s
			return point, nil
		}
	}

	v, unit, err := n.trans.Numeric(entry, vocab, raw.Value)
	if err != nil {
		return point, err
	}
	point.Value = v
	if unit != "" {
		point.Unit = unit
	}
	return point, nil
}

func mustStateTable(canonical string) map[int64]string {
	t, _ := StateTableFor(canonical)
	return t
}
