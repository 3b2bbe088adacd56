package application

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Heuristics defines tunable resolution heuristics.
type Heuristics struct {
	// MinFeedTitleWords is the word-count floor below which a vendor feed
	// title is treated as a point-name echo rather than a description.
	MinFeedTitleWords int `yaml:"min_feed_title_words"`
}

// SourcePaths defines the capture and workbook inputs for one resolution run.
type SourcePaths struct {
	StandardsWorkbook string `yaml:"standards_workbook"`
	VendorWorkbook    string `yaml:"vendor_workbook"`

	VSN300LiveData string `yaml:"vsn300_livedata"`
	VSN300Feeds    string `yaml:"vsn300_feeds"`
	VSN300Status   string `yaml:"vsn300_status"`

	VSN700LiveData string `yaml:"vsn700_livedata"`
	VSN700Feeds    string `yaml:"vsn700_feeds"`
	VSN700Status   string `yaml:"vsn700_status"`
}

// BuildConfig defines mapgen configuration.
type BuildConfig struct {
	Sources    SourcePaths `yaml:"sources"`
	Heuristics Heuristics  `yaml:"heuristics"`

	ArtifactPath string `yaml:"artifact_path"`
	ReportXLSX   string `yaml:"report_xlsx"`
	ReportPDF    string `yaml:"report_pdf"`

	// DatabaseURL, when set, publishes the resolved table to Postgres in
	// addition to the artifact file.
	DatabaseURL string `yaml:"database_url"`
}

// LoadBuildConfig loads config from yaml or env.
func LoadBuildConfig() (BuildConfig, error) {
	cfg := BuildConfig{
		Sources: SourcePaths{
			StandardsWorkbook: getenvDefault("MAPGEN_STANDARDS_WORKBOOK", filepath.FromSlash("sources/sunspec_models.xlsx")),
			VendorWorkbook:    getenvDefault("MAPGEN_VENDOR_WORKBOOK", filepath.FromSlash("sources/vendor_extensions.xlsx")),
			VSN300LiveData:    getenvDefault("MAPGEN_VSN300_LIVEDATA", filepath.FromSlash("sources/vsn300_livedata.json")),
			VSN300Feeds:       getenvDefault("MAPGEN_VSN300_FEEDS", filepath.FromSlash("sources/vsn300_feeds.json")),
			VSN300Status:      getenvDefault("MAPGEN_VSN300_STATUS", filepath.FromSlash("sources/vsn300_status.json")),
			VSN700LiveData:    getenvDefault("MAPGEN_VSN700_LIVEDATA", filepath.FromSlash("sources/vsn700_livedata.json")),
			VSN700Feeds:       getenvDefault("MAPGEN_VSN700_FEEDS", filepath.FromSlash("sources/vsn700_feeds.json")),
			VSN700Status:      getenvDefault("MAPGEN_VSN700_STATUS", filepath.FromSlash("sources/vsn700_status.json")),
		},
		Heuristics: Heuristics{
			MinFeedTitleWords: getenvIntDefault("MAPGEN_MIN_FEED_TITLE_WORDS", 2),
		},
		ArtifactPath: getenvDefault("MAPGEN_ARTIFACT", filepath.FromSlash("var/mapping/point_mappings.json")),
		ReportXLSX:   os.Getenv("MAPGEN_REPORT_XLSX"),
		ReportPDF:    os.Getenv("MAPGEN_REPORT_PDF"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}

	if path := os.Getenv("MAPGEN_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Heuristics.MinFeedTitleWords <= 0 {
		cfg.Heuristics.MinFeedTitleWords = 2
	}
	if cfg.ArtifactPath == "" {
		return cfg, errors.New("mapgen: artifact path required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
