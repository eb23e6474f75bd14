package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"molcv/pkg/errors"
)

const indexPage = `<html><body>
<h1>Dataset downloads</h1>
<ul>
<li><a href="bio-decagon-combo.csv">bio-decagon-combo.csv</a></li>
<li><a href="/files/decagon-graphs.jsonl">decagon-graphs.jsonl</a></li>
<li><a href="qm9.labels.jsonl">qm9.labels.jsonl</a></li>
<li><a href="paper.pdf">the paper</a></li>
<li><a href="index.html">about</a></li>
</ul>
</body></html>`

func newIndexServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(indexPage))
		case "/bio-decagon-combo.csv":
			w.Write([]byte("d1,d2,se\n"))
		case "/files/decagon-graphs.jsonl":
			w.Write([]byte("CID01\t{}\n"))
		case "/qm9.labels.jsonl":
			w.Write([]byte("CID01\t[1.0]\n"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFileLinks(t *testing.T) {
	srv := newIndexServer(t)

	client := NewClient()
	links, err := client.FileLinks(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("FileLinks failed: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 data links, got %d: %v", len(links), links)
	}
	// relative links resolve against the index URL
	want := srv.URL + "/files/decagon-graphs.jsonl"
	found := false
	for _, link := range links {
		if link == want {
			found = true
		}
	}
	if !found {
		t.Errorf("missing resolved link %s in %v", want, links)
	}
}

func TestFetchDataset(t *testing.T) {
	srv := newIndexServer(t)
	destDir := t.TempDir()

	client := NewClient()
	paths, err := client.FetchDataset(context.Background(), srv.URL+"/", destDir, "decagon")
	if err != nil {
		t.Fatalf("FetchDataset failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 downloaded files, got %d: %v", len(paths), paths)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "bio-decagon-combo.csv"))
	if err != nil {
		t.Fatalf("downloaded CSV missing: %v", err)
	}
	if string(data) != "d1,d2,se\n" {
		t.Errorf("unexpected CSV content: %q", data)
	}
}

func TestFetchDataset_NoMatches(t *testing.T) {
	srv := newIndexServer(t)

	client := NewClient()
	_, err := client.FetchDataset(context.Background(), srv.URL+"/", t.TempDir(), "zinc")
	if err == nil {
		t.Fatal("expected error when no files match the dataset name")
	}
	if !errors.IsErrorType(err, errors.ErrorTypeFetch) {
		t.Errorf("expected fetch error, got: %v", err)
	}
}
