package source

import (
	"fmt"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// LoadError is a fatal build-time failure: a required standards or telemetry
// source is missing or malformed. It always identifies the offending source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("source load: %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// StandardsDefinition is one point definition read from a standards workbook.
type StandardsDefinition struct {
	Model       mapping.ModelID
	PointName   string
	Label       string
	Description string
	Unit        string
	DataType    string
	ScaleFactor string

	// Proprietary marks definitions from the vendor extension workbook.
	// Open-standard definitions win ties against proprietary ones.
	Proprietary bool
}

// FeedMeta is the title/unit metadata a datalogger publishes per datastream
// in its feeds endpoint.
type FeedMeta struct {
	Title  string
	Unit   string
	Origin string
}

// StatusPoint is a diagnostic key from a datalogger status endpoint. Dotted
// keys are flattened (fw.release -> fw_release).
type StatusPoint struct {
	Name     string
	Label    string
	Example  string
	InVSN300 bool
	InVSN700 bool
}

// Capture bundles everything loaded from one vendor vocabulary.
type Capture struct {
	LivePoints map[string]struct{}
	Feeds      map[string]FeedMeta
}
