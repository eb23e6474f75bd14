// Package fetch downloads raw dataset files. The upstream project hosts
// its inputs behind a plain HTML index page, so the client scrapes the
// page for data-file links and pulls the ones matching a dataset name.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"molcv/pkg/errors"
	"molcv/pkg/logger"
)

// file extensions considered dataset payloads on the index page
var dataExtensions = []string{".csv", ".jsonl", ".csv.gz", ".tar.gz"}

// Client fetches dataset files from an HTML index page
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a fetch client with a generous timeout; the raw CSV
// runs to hundreds of megabytes.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Minute},
		logger:     logger.Get(),
	}
}

// FileLinks scrapes indexURL and returns the absolute URLs of all linked
// dataset files.
func (c *Client) FileLinks(ctx context.Context, indexURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, errors.NewFetchFailed(indexURL, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewFetchFailed(indexURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewFetchFailed(indexURL, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.NewFetchFailed(indexURL, err)
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, errors.NewFetchFailed(indexURL, err)
	}
	return dataLinks(doc, base), nil
}

// dataLinks extracts absolute data-file URLs from a parsed index page
func dataLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || !hasDataExtension(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links
}

func hasDataExtension(href string) bool {
	name := strings.ToLower(path.Base(href))
	for _, ext := range dataExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FetchDataset downloads every linked file whose name contains the dataset
// name (case-insensitive) into destDir. The matched files download
// concurrently; the dataset itself is processed later, single-threaded.
func (c *Client) FetchDataset(ctx context.Context, indexURL, destDir, datasetName string) ([]string, error) {
	links, err := c.FileLinks(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, link := range links {
		if strings.Contains(strings.ToLower(path.Base(link)), strings.ToLower(datasetName)) {
			matched = append(matched, link)
		}
	}
	if len(matched) == 0 {
		return nil, errors.NewNoMatchingFiles(indexURL, datasetName)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	c.logger.Info("Downloading dataset files",
		zap.String("dataset", datasetName),
		zap.Int("files", len(matched)),
	)

	paths := make([]string, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	for i, link := range matched {
		i, link := i, link
		g.Go(func() error {
			dest, err := c.Download(gctx, link, destDir)
			if err != nil {
				return err
			}
			paths[i] = dest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Download fetches one file into destDir and returns its local path
func (c *Client) Download(ctx context.Context, fileURL, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", errors.NewFetchFailed(fileURL, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewFetchFailed(fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewFetchFailed(fileURL, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	dest := filepath.Join(destDir, path.Base(fileURL))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		return "", errors.NewFetchFailed(fileURL, err)
	}

	c.logger.Info("Downloaded file",
		zap.String("url", fileURL),
		zap.String("path", dest),
		zap.Int64("bytes", written),
	)
	return dest, f.Close()
}
