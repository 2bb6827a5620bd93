package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	googleSheetMimeType = "application/vnd.google-apps.spreadsheet"
	xlsxMimeType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service struct {
	srv *drive.Service
}

func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

// FetchWorkbook downloads the sales/inventory workbook to destPath. Native
// Google Sheets are exported as xlsx. The file is replaced only once the
// download has been verified as a readable workbook.
func (s *Service) FetchWorkbook(ctx context.Context, fileID, destPath string) error {
	meta, err := s.srv.Files.Get(fileID).Fields("id", "name", "mimeType").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to read file metadata: %w", err)
	}

	var body io.ReadCloser
	if meta.MimeType == googleSheetMimeType {
		resp, err := s.srv.Files.Export(fileID, xlsxMimeType).Context(ctx).Download()
		if err != nil {
			return fmt.Errorf("unable to export sheet: %w", err)
		}
		body = resp.Body
	} else {
		resp, err := s.srv.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return fmt.Errorf("unable to download file: %w", err)
		}
		body = resp.Body
	}
	defer body.Close()

	if err := writeWorkbook(body, destPath); err != nil {
		return err
	}

	log.Info().Str("file", meta.Name).Str("dest", destPath).Msg("drive: workbook fetched")
	return nil
}

// writeWorkbook streams r to a temporary file next to destPath, checks it
// opens as a workbook with at least one sheet, then renames it into place.
func writeWorkbook(r io.Reader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", destPath, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".workbook-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed writing workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := verifyWorkbook(tmpPath); err != nil {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func verifyWorkbook(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("downloaded file is not a readable workbook: %w", err)
	}
	defer f.Close()

	if len(f.GetSheetList()) == 0 {
		return fmt.Errorf("downloaded workbook has no sheets")
	}
	return nil
}
