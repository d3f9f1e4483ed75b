package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"unit-lookup/internal/common/config"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/models"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// spreadsheetAPI is the slice of the Google APIs the sheets source needs.
type spreadsheetAPI interface {
	FirstSheetTitle(ctx context.Context, spreadsheetID string) (string, error)
	Values(ctx context.Context, spreadsheetID, a1Range string) ([][]interface{}, error)
	FindByTitle(ctx context.Context, title string) (string, error)
}

// SheetsSource reads the unit table from a Google spreadsheet.
type SheetsSource struct {
	api           spreadsheetAPI
	spreadsheetID string
	worksheet     string
}

// NewSheetsSource authenticates with the service account and resolves the
// spreadsheet: by id first, then by title through Drive.
func NewSheetsSource(ctx context.Context, cfg config.SheetsConfig, log logger.Logger) (*SheetsSource, error) {
	creds := []byte(cfg.Credentials)
	if len(creds) == 0 && cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds = b
	}
	if len(creds) == 0 {
		return nil, errors.New("google service account credentials are empty")
	}

	api, err := newGoogleAPI(ctx, creds)
	if err != nil {
		return nil, err
	}
	return openSpreadsheet(ctx, api, cfg, log)
}

func openSpreadsheet(ctx context.Context, api spreadsheetAPI, cfg config.SheetsConfig, log logger.Logger) (*SheetsSource, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)

	if id != "" {
		title, err := api.FirstSheetTitle(ctx, id)
		if err == nil {
			return newSheetsSource(api, id, cfg.Worksheet, title), nil
		}
		if cfg.Title == "" {
			return nil, fmt.Errorf("open spreadsheet %s: %w", id, err)
		}
		log.Warn("opening spreadsheet by id failed, searching by title", map[string]interface{}{
			"spreadsheetId": id,
			"title":         cfg.Title,
			"error":         err,
		})
	}

	found, err := api.FindByTitle(ctx, cfg.Title)
	if err != nil {
		return nil, fmt.Errorf("find spreadsheet %q: %w", cfg.Title, err)
	}
	title, err := api.FirstSheetTitle(ctx, found)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", found, err)
	}
	return newSheetsSource(api, found, cfg.Worksheet, title), nil
}

func newSheetsSource(api spreadsheetAPI, id, worksheet, firstTitle string) *SheetsSource {
	if worksheet == "" {
		worksheet = firstTitle
	}
	return &SheetsSource{api: api, spreadsheetID: id, worksheet: worksheet}
}

func (s *SheetsSource) Name() string { return "sheets" }

func (s *SheetsSource) FetchAll(ctx context.Context) ([]models.UnitRecord, error) {
	values, err := s.api.Values(ctx, s.spreadsheetID, sheetRange(s.worksheet))
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", s.worksheet, err)
	}
	return FromRows(toTextRows(values)), nil
}

func (s *SheetsSource) Close() error { return nil }

// sheetRange addresses a whole worksheet in A1 notation.
func sheetRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

type googleAPI struct {
	sheets *sheets.Service
	drive  *drive.Service
}

func newGoogleAPI(ctx context.Context, creds []byte) (*googleAPI, error) {
	sheetsSvc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(drive.DriveMetadataReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &googleAPI{sheets: sheetsSvc, drive: driveSvc}, nil
}

func (g *googleAPI) FirstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	ss, err := g.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

func (g *googleAPI) Values(ctx context.Context, spreadsheetID, a1Range string) ([][]interface{}, error) {
	vr, err := g.sheets.Spreadsheets.Values.Get(spreadsheetID, a1Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return vr.Values, nil
}

func (g *googleAPI) FindByTitle(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", ErrSpreadsheetNotFound
	}
	q := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(title))

	list, err := g.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, title)
	}
	return list.Files[0].Id, nil
}
