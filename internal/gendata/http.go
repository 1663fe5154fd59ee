package gendata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/sage/pkg/logger"
)

// HTTP client defaults.
const (
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 512
)

// Submit POSTs the rows as CSV to the service's dataset endpoint and
// logs the load report.
func Submit(ctx context.Context, baseURL string, rows []Row) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return err
	}

	url := baseURL + "/datasets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")

	client := &http.Client{Timeout: defaultTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmit, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: status %d: %s", ErrSubmit, resp.StatusCode, string(body))
	}
	logger.Get().Info(ctx, "dataset submitted",
		logger.String("url", url),
		logger.String("response", string(body)),
	)
	return nil
}
