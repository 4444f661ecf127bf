package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RecoveryAshes/FacultyCrawl/internal/core"
	"github.com/RecoveryAshes/FacultyCrawl/internal/crawlers"
	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
	"github.com/RecoveryAshes/FacultyCrawl/internal/storage"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
)

const facultyPage = `<html><body>
<h1 class="cpp-h1">2024-2025 Permanent Faculty Listing</h1>
<div>
<h2>Jane Doe</h2>
<p>Title: Professor</p><p>Office: Bldg 1</p><p>Phone: 555-1234</p>
<p>Email: &lt;jdoe@x.edu&gt;</p><p>Web: http://x.edu/jdoe</p>
<hr>
<h2>John Roe</h2>
<p>Title: Lecturer Office: Bldg 8</p>
<h2>Staff</h2>
<p>Office: Main</p>
</div>
</body></html>`

func testConfig(t *testing.T, seed, scope string) *core.Config {
	t.Helper()
	dir := t.TempDir()
	return &core.Config{
		Crawl: core.CrawlConfig{
			SeedURL:    seed,
			Scope:      scope,
			Extensions: []string{".html", ".shtml"},
			Timeout:    5,
		},
		Target:  core.TargetConfig{Selector: core.DefaultTargetSelector, Marker: core.DefaultTargetMarker},
		Extract: core.ExtractConfig{HeadingTag: core.DefaultHeadingTag},
		Storage: core.StorageConfig{DBDir: filepath.Join(dir, "data")},
		Output:  core.OutputConfig{BaseDir: filepath.Join(dir, "output")},
	}
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/cs/index.html":    `<h1 class="cpp-h1">Computer Science</h1><a href="programs.html">p</a><a href="/cs/faculty.shtml">f</a>`,
		"/cs/programs.html": `<a href="index.html">home</a>`,
		"/cs/faculty.shtml": facultyPage,
	}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCrawlThenExtract(t *testing.T) {
	srv := newSite(t)
	host := strings.TrimPrefix(srv.URL, "https://")
	cfg := testConfig(t, srv.URL+"/cs/index.html", host+"/cs")
	ctx := context.Background()

	var crawlOut bytes.Buffer
	err := runCrawl(ctx, cfg, &crawlOut, &bytes.Buffer{}, crawlers.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	out := crawlOut.String()
	assert.True(t, strings.HasPrefix(out,
		"Crawling: "+srv.URL+"/cs/index.html\n"+
			"Crawling: "+srv.URL+"/cs/programs.html\n"+
			"Crawling: "+srv.URL+"/cs/faculty.shtml\n"+
			"Found target page: "+srv.URL+"/cs/faculty.shtml\n"+
			"Crawling completed\n"), out)
	assert.FileExists(t, filepath.Join(cfg.Output.BaseDir, utils.CrawlReportFile))

	var extractOut bytes.Buffer
	require.NoError(t, runExtract(ctx, cfg, &extractOut))

	got := extractOut.String()
	assert.Contains(t, got, "Successfully stored information for 2 professors\n")
	assert.Contains(t, got, "\nStored faculty information:\n")
	assert.Contains(t, got, "\nName: Jane Doe\nTitle: Professor\nOffice: Bldg 1\nPhone: 555-1234\nEmail: jdoe@x.edu\nWebsite: http://x.edu/jdoe\n"+strings.Repeat("-", 50)+"\n")
	assert.Contains(t, got, "\nName: John Roe\nTitle: Lecturer\nOffice: Bldg 8\n")
	assert.NotContains(t, got, "Staff")

	data, err := os.ReadFile(filepath.Join(cfg.Output.BaseDir, utils.FacultyReportFile))
	require.NoError(t, err)
	var report utils.FacultyReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, srv.URL+"/cs/faculty.shtml", report.SourceURL)

	// 再次提取不会产生重复记录
	require.NoError(t, runExtract(ctx, cfg, &bytes.Buffer{}))
	db, err := storage.Open(cfg.Storage.DBDir, storage.DefaultOptions())
	require.NoError(t, err)
	defer db.Close()
	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExtract_NoTargetPage(t *testing.T) {
	cfg := testConfig(t, "https://x.edu/cs/index.html", "x.edu/cs")

	var out bytes.Buffer
	require.NoError(t, runExtract(context.Background(), cfg, &out))
	assert.Equal(t, "Faculty page not found in database!\n", out.String())
}

func TestExtract_NoRecords(t *testing.T) {
	cfg := testConfig(t, "https://x.edu/cs/index.html", "x.edu/cs")
	ctx := context.Background()

	db, err := storage.Open(cfg.Storage.DBDir, storage.DefaultOptions())
	require.NoError(t, err)
	page := &models.Page{URL: "https://x.edu/cs/faculty.shtml", HTML: `<h1 class="cpp-h1">Permanent Faculty</h1><p>TBA</p>`}
	require.NoError(t, db.InsertPage(ctx, page))
	require.NoError(t, db.SetTargetFlag(ctx, page.URL))
	require.NoError(t, db.Close())

	var out bytes.Buffer
	require.NoError(t, runExtract(ctx, cfg, &out))
	assert.Equal(t, "No faculty information found!\n", out.String())
}

func TestCrawl_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "https://x.edu/cs/index.html", "other.edu")

	err := runCrawl(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	var cfgErr *models.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidate(t *testing.T) {
	cfg := testConfig(t, "https://x.edu/cs/index.html", "x.edu/cs")
	cfg.Fetch.Headers = map[string]string{"authorization": "Bearer secret-token"}

	var out bytes.Buffer
	require.NoError(t, runValidate(cfg, &out))

	got := out.String()
	assert.Contains(t, got, "✅ 配置验证通过!")
	assert.Contains(t, got, "Authorization: Bearer ***, ")
	assert.Contains(t, got, "User-Agent: "+core.DefaultUserAgent+"\n")
	assert.NotContains(t, got, "secret-token")
}

func TestValidate_ForbiddenHeader(t *testing.T) {
	cfg := testConfig(t, "https://x.edu/cs/index.html", "x.edu/cs")
	cfg.Fetch.Headers = map[string]string{"Host": "evil.example"}

	assert.Error(t, runValidate(cfg, &bytes.Buffer{}))
}
