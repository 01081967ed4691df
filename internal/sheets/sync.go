package sheets

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/HiDoYa/finance-pipeline/internal/domain"
	"github.com/HiDoYa/finance-pipeline/internal/errs"
	"github.com/HiDoYa/finance-pipeline/internal/logger"
)

// The Metadata sheet carries the sync watermark: a label in A1 and the
// last-updated timestamp in B1. It is created blank, no header.
const (
	metadataSheet       = "Metadata"
	watermarkReadRange  = metadataSheet + "!B1"
	watermarkWriteRange = metadataSheet + "!A1:B1"
	watermarkLabel      = "Last Updated:"
	watermarkLayout     = "01/02/06 15:04"
)

// Engine synchronizes parsed transactions into per-month sheets of one
// spreadsheet. An Engine is good for any number of runs; the sheet-ID
// cache persists across runs so back-to-back runs in one process skip
// re-listing, while the accumulated mutation list is reset per run.
//
// The engine is single-writer: it assumes nobody else edits the
// spreadsheet between its watermark read and write.
type Engine struct {
	svc    Service
	dryRun bool
	now    func() time.Time

	// Sheet title -> backend sheet ID. Populated by at most one full
	// spreadsheet listing per run, plus IDs returned by sheet creation.
	ids        map[string]int64
	populated  bool
	nextFakeID int64 // synthetic IDs handed out for dry-run creations

	// Run-local mutation state.
	requests []*sheetsapi.Request
	touched  []int64
}

// NewEngine creates a sync engine over the given backend service. In
// dry-run mode the engine logs what it would do and performs no
// mutations.
func NewEngine(svc Service, dryRun bool) *Engine {
	return &Engine{
		svc:    svc,
		dryRun: dryRun,
		now:    time.Now,
		ids:    make(map[string]int64),
	}
}

// Sync determines which transactions are new relative to the stored
// watermark, appends them to their month sheets (creating sheets on
// demand), and advances the watermark. txns must be sorted ascending
// by date. Returns the number of rows appended.
//
// All row appends, sheet setup and formatting go out as one batched
// call; on any backend rejection the run aborts with the watermark
// untouched, so the next run re-attempts the same slice. If the
// backend applied part of the batch before failing, those rows will be
// appended again on retry; the batch is assumed all-or-nothing.
func (e *Engine) Sync(ctx context.Context, txns []domain.Transaction, categoryMap map[string]string) (int, error) {
	const op = "sheets.Sync"
	log := logger.FromContext(ctx)

	if e.svc == nil {
		return 0, errs.Errorf(errs.KindNotAuthenticated, op, "no spreadsheet service configured")
	}

	e.requests = nil
	e.touched = nil
	formula := categoryFormula(categoryMap)
	subcategories := subcategoryNames(categoryMap)

	watermark, err := e.readWatermark(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().
		Time("watermark", watermark).
		Int("transactions", len(txns)).
		Bool("dry_run", e.dryRun).
		Msg("Starting spreadsheet sync")

	appended := 0
	touchedSet := make(map[int64]bool)
	for _, t := range txns {
		// The watermark means "synced up to, not including": a
		// transaction dated exactly at it is re-included.
		if dateTime(t.Date).Before(watermark) {
			continue
		}

		sheetID, err := e.ensureSheet(ctx, t.MonthLabel())
		if err != nil {
			return 0, err
		}
		if !touchedSet[sheetID] {
			touchedSet[sheetID] = true
			e.touched = append(e.touched, sheetID)
		}

		e.requests = append(e.requests, appendRowRequest(sheetID, t, formula))
		appended++
	}

	for _, sheetID := range e.touched {
		e.requests = append(e.requests,
			validationRequest(sheetID, subcategories),
			autoResizeRequest(sheetID),
			categoryWidthRequest(sheetID),
		)
	}

	if len(e.requests) > 0 {
		if e.dryRun {
			log.Info().
				Int("requests", len(e.requests)).
				Int("rows", appended).
				Msg("[DRY RUN] Would submit batched mutations")
		} else {
			req := &sheetsapi.BatchUpdateSpreadsheetRequest{Requests: e.requests}
			if _, err := e.svc.BatchUpdate(ctx, req); err != nil {
				return 0, errs.E(errs.KindBackend, op, err)
			}
			log.Info().
				Int("requests", len(e.requests)).
				Int("sheets_touched", len(e.touched)).
				Msg("Submitted batched mutations")
		}
	}

	if e.dryRun {
		log.Info().Int("rows", appended).Msg("[DRY RUN] Would advance watermark")
		return appended, nil
	}

	if err := e.writeWatermark(ctx); err != nil {
		return 0, err
	}

	log.Info().Int("rows", appended).Msg("Sync completed")
	return appended, nil
}

// readWatermark ensures the Metadata sheet exists and reads the
// last-updated timestamp. A missing value means nothing has ever been
// synced and the zero time is returned, so every transaction is new.
func (e *Engine) readWatermark(ctx context.Context) (time.Time, error) {
	const op = "sheets.readWatermark"

	created, err := e.ensureMetadataSheet(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if created {
		// Fresh metadata sheet; no watermark stored yet.
		return time.Time{}, nil
	}

	resp, err := e.svc.GetValues(ctx, watermarkReadRange)
	if err != nil {
		return time.Time{}, errs.E(errs.KindBackend, op, err)
	}
	if resp == nil || len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return time.Time{}, nil
	}

	raw, ok := resp.Values[0][0].(string)
	if !ok {
		return time.Time{}, errs.Errorf(errs.KindFormat, op, "unexpected watermark cell value %v", resp.Values[0][0])
	}
	ts, err := time.ParseInLocation(watermarkLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, errs.E(errs.KindFormat, op, err)
	}
	return ts, nil
}

// writeWatermark records the local time of this run. Only called after
// the mutation batch succeeded.
func (e *Engine) writeWatermark(ctx context.Context) error {
	values := &sheetsapi.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{{watermarkLabel, e.now().Format(watermarkLayout)}},
	}
	if err := e.svc.UpdateValues(ctx, watermarkWriteRange, values); err != nil {
		return errs.E(errs.KindBackend, "sheets.writeWatermark", err)
	}
	return nil
}

// ensureMetadataSheet reports whether it had to create the sheet.
func (e *Engine) ensureMetadataSheet(ctx context.Context) (bool, error) {
	if _, ok := e.ids[metadataSheet]; ok {
		return false, nil
	}
	if err := e.populate(ctx); err != nil {
		return false, err
	}
	if _, ok := e.ids[metadataSheet]; ok {
		return false, nil
	}
	if _, err := e.createSheet(ctx, metadataSheet); err != nil {
		return false, err
	}
	return true, nil
}

// ensureSheet resolves the sheet ID for a month label, creating the
// sheet on first sight. Setup requests for a new sheet (header row,
// frozen header, grid size) are queued immediately so they precede any
// of its row appends in the batch.
func (e *Engine) ensureSheet(ctx context.Context, label string) (int64, error) {
	if id, ok := e.ids[label]; ok {
		return id, nil
	}
	if err := e.populate(ctx); err != nil {
		return 0, err
	}
	if id, ok := e.ids[label]; ok {
		return id, nil
	}

	id, err := e.createSheet(ctx, label)
	if err != nil {
		return 0, err
	}
	e.requests = append(e.requests, headerRequest(id), freezeHeaderRequest(id), gridSizeRequest(id))
	return id, nil
}

// populate fills the sheet-ID cache from one full spreadsheet listing.
// The flag guarantees at most one listing per run no matter how many
// labels miss.
func (e *Engine) populate(ctx context.Context) error {
	if e.populated {
		return nil
	}

	spreadsheet, err := e.svc.GetSpreadsheet(ctx)
	if err != nil {
		return errs.E(errs.KindBackend, "sheets.populate", err)
	}
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil {
			e.ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	e.populated = true
	return nil
}

// createSheet issues an immediate AddSheet call; the backend assigns
// the ID, which is cached. In dry-run mode a synthetic negative ID is
// cached instead and nothing is sent.
func (e *Engine) createSheet(ctx context.Context, title string) (int64, error) {
	const op = "sheets.createSheet"
	log := logger.FromContext(ctx)

	if e.dryRun {
		e.nextFakeID--
		e.ids[title] = e.nextFakeID
		log.Info().Str("sheet", title).Msg("[DRY RUN] Would create sheet")
		return e.nextFakeID, nil
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	resp, err := e.svc.BatchUpdate(ctx, req)
	if err != nil {
		return 0, errs.E(errs.KindBackend, op, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, errs.Errorf(errs.KindBackend, op, "add sheet %q: malformed reply", title)
	}

	id := resp.Replies[0].AddSheet.Properties.SheetId
	e.ids[title] = id
	log.Info().Str("sheet", title).Int64("sheet_id", id).Msg("Created sheet")
	return id, nil
}

// dateTime places a calendar date at local midnight for comparison
// against the stored watermark timestamp.
func dateTime(d civil.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}
