package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Import CSV column order: name, category, price, discount, stock, image_url.
const importColumns = 6

// ImportRow is one parsed line of a product import file.
type ImportRow struct {
	Line     int
	Name     string
	Category string
	Price    decimal.Decimal
	Discount decimal.Decimal
	Stock    int
	ImageURL string
}

// ImportFailure records why a single row was skipped.
type ImportFailure struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	Created  int             `json:"created"`
	Failed   []ImportFailure `json:"failed"`
	Duration time.Duration   `json:"-"`
}

// ImageFetcher verifies a remote product image and returns the URL to
// store. Implementations may download and rehost the image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPImageFetcher checks that an image URL is reachable and serves an
// image content type.
type HTTPImageFetcher struct {
	Client *http.Client
}

// Fetch validates the image URL with a GET request.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("not an image: %s", ct)
	}
	return url, nil
}

// Importer runs best-effort bulk product imports from CSV files.
type Importer struct {
	catalog *Service
	images  ImageFetcher
	log     *logrus.Logger
}

// NewImporter creates an Importer. A nil fetcher disables image handling.
func NewImporter(catalog *Service, images ImageFetcher, log *logrus.Logger) *Importer {
	return &Importer{catalog: catalog, images: images, log: log}
}

// Import reads a CSV stream and creates one product per valid row.
// Each row succeeds or fails on its own; a bad row never aborts the
// run. An io-level read error ends the run and is returned alongside
// the partial result.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{Failed: []ImportFailure{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed = append(result.Failed, ImportFailure{Line: line, Message: err.Error()})
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			result.Duration = time.Since(start)
			return result, fmt.Errorf("failed to read import file: %w", err)
		}

		if line == 1 && isHeaderRow(record) {
			continue
		}

		row, err := parseImportRow(line, record)
		if err != nil {
			result.Failed = append(result.Failed, ImportFailure{Line: line, Message: err.Error()})
			continue
		}

		if err := im.createFromRow(ctx, row); err != nil {
			result.Failed = append(result.Failed, ImportFailure{Line: line, Message: err.Error()})
			continue
		}
		result.Created++
	}

	result.Duration = time.Since(start)
	im.log.WithFields(logrus.Fields{
		"created":  result.Created,
		"failed":   len(result.Failed),
		"duration": result.Duration.String(),
	}).Info("Product import finished")

	return result, nil
}

func (im *Importer) createFromRow(ctx context.Context, row *ImportRow) error {
	category, err := im.catalog.GetOrCreateCategory(ctx, row.Category)
	if err != nil {
		return err
	}

	imageURL := ""
	if row.ImageURL != "" && im.images != nil {
		url, err := im.images.Fetch(ctx, row.ImageURL)
		if err != nil {
			// The product is still created, just without an image.
			im.log.WithError(err).WithFields(logrus.Fields{
				"line": row.Line,
				"url":  row.ImageURL,
			}).Warn("Failed to fetch product image")
		} else {
			imageURL = url
		}
	}

	_, err = im.catalog.CreateProduct(ctx, &CreateProductRequest{
		Name:       row.Name,
		Price:      row.Price,
		Discount:   row.Discount,
		Stock:      row.Stock,
		CategoryID: &category.ID,
		ImageURL:   imageURL,
	})
	return err
}

func parseImportRow(line int, record []string) (*ImportRow, error) {
	if len(record) < importColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", importColumns, len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	category := strings.TrimSpace(record[1])
	if category == "" {
		return nil, fmt.Errorf("category must not be empty")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", record[2])
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	discount := decimal.Zero
	if v := strings.TrimSpace(record[3]); v != "" {
		discount, err = decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid discount %q", record[3])
		}
		if discount.IsNegative() {
			return nil, fmt.Errorf("discount must not be negative")
		}
	}

	stock := 0
	if v := strings.TrimSpace(record[4]); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid stock %q", record[4])
		}
		if stock < 0 {
			return nil, fmt.Errorf("stock must not be negative")
		}
	}

	return &ImportRow{
		Line:     line,
		Name:     name,
		Category: category,
		Price:    price,
		Discount: discount,
		Stock:    stock,
		ImageURL: strings.TrimSpace(record[5]),
	}, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "name" || first == "product" || first == "product_name"
}
