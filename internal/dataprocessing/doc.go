// Package dataprocessing turns motion-capture workbooks into typed trials and
// landmark trajectories.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Reader: RawTableReader returns each trial sheet as a raw cell grid
// (ExcelReader reads .xlsx files with excelize)
// 2. Normalizer: applies the fixed sheet layout and produces a domain.Trial
// 3. Extractor: resolves landmark groups to X/Y/Z columns and zips them into
// trajectories
//
// # Usage
//
//	reader, err := dataprocessing.OpenExcel("motiondata.xlsx")
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//
//	source := dataprocessing.NewWorkbookSource(reader,
//	    dataprocessing.NewNormalizer(dataprocessing.DefaultLayout()))
//	trial, err := source.LoadTrial(ctx, "walk01")
//
//	trajectories, err := dataprocessing.NewExtractor(dataprocessing.DefaultMarkerSet()).Extract(trial)
//
// # Data Flow
//
//	Workbook sheet → RawTable → Trial → map[landmark]Trajectory
//
// # Error Handling
//
// Missing sheets or files are SourceUnavailable, tables that break the
// layout are LayoutMismatch and landmarks with absent channels are
// UnresolvedMarkerGroup. Cells that do not parse as numbers never fail; they
// become NaN and keep the table's shape.
package dataprocessing
