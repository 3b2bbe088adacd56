package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"sunspec-gateway/internal/mapping/application"
	"sunspec-gateway/internal/mapping/infrastructure/artifact"
	mappingpostgres "sunspec-gateway/internal/mapping/infrastructure/postgres"
	"sunspec-gateway/internal/mapping/infrastructure/source"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// mapgen rebuilds the canonical mapping artifact from the standards workbooks
// and the captured vendor vocabularies. The build is deterministic: the same
// sources always produce a byte-identical artifact.
func main() {
	logger := log.New(os.Stdout, "mapgen: ", log.LstdFlags)

	cfg, err := application.LoadBuildConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	inputs, err := loadSources(cfg.Sources)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	resolver := application.NewResolver(logger, cfg.Heuristics)
	table, report, err := resolver.Resolve(inputs)
	if err != nil {
		logger.Fatalf("resolution error: %v", err)
	}
	logger.Printf("resolved %d entries (%d dropped, %d unknown category)",
		report.Resolved, len(report.Dropped), len(report.UnknownCategory))

	if err := artifact.Write(cfg.ArtifactPath, table); err != nil {
		logger.Fatalf("artifact write error: %v", err)
	}
	logger.Printf("artifact written to %s", cfg.ArtifactPath)

	if cfg.ReportXLSX != "" {
		data, err := artifact.BuildResolutionXLSX(table, report)
		if err != nil {
			logger.Fatalf("xlsx report error: %v", err)
		}
		if err := os.WriteFile(cfg.ReportXLSX, data, 0o644); err != nil {
			logger.Fatalf("xlsx report write error: %v", err)
		}
		logger.Printf("xlsx report written to %s", cfg.ReportXLSX)
	}
	if cfg.ReportPDF != "" {
		data, err := artifact.BuildResolutionPDF(table, report)
		if err != nil {
			logger.Fatalf("pdf report error: %v", err)
		}
		if err := os.WriteFile(cfg.ReportPDF, data, 0o644); err != nil {
			logger.Fatalf("pdf report write error: %v", err)
		}
		logger.Printf("pdf report written to %s", cfg.ReportPDF)
	}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		repo := mappingpostgres.NewMappingRepository(db)
		if err := repo.Publish(context.Background(), table.Entries()); err != nil {
			logger.Fatalf("db publish error: %v", err)
		}
		logger.Printf("table published to database")
	}
}

func loadSources(paths application.SourcePaths) (application.Inputs, error) {
	var in application.Inputs

	standards, err := source.LoadSunSpecWorkbook(paths.StandardsWorkbook)
	if err != nil {
		return in, err
	}
	vendor, err := source.LoadVendorWorkbook(paths.VendorWorkbook)
	if err != nil {
		return in, err
	}
	in.Standards = append(standards, vendor...)

	if in.VSN300Live, err = source.LoadLiveData(paths.VSN300LiveData); err != nil {
		return in, err
	}
	if in.VSN300Feeds, err = source.LoadFeeds(paths.VSN300Feeds, "vsn300"); err != nil {
		return in, err
	}
	if in.VSN300Status, err = source.LoadStatus(paths.VSN300Status); err != nil {
		return in, err
	}

	if in.VSN700Live, err = source.LoadLiveData(paths.VSN700LiveData); err != nil {
		return in, err
	}
	if in.VSN700Feeds, err = source.LoadFeeds(paths.VSN700Feeds, "vsn700"); err != nil {
		return in, err
	}
	if in.VSN700Status, err = source.LoadStatus(paths.VSN700Status); err != nil {
		return in, err
	}

	return in, nil
}
