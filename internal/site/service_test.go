package site

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/wsqstar/ppage/internal/apperr"
	"github.com/wsqstar/ppage/internal/content"
	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/graph"
	"github.com/wsqstar/ppage/internal/index"
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/storage"
	"github.com/wsqstar/ppage/internal/testutil"
)

func testOptions() Options {
	return Options{
		Content: content.Options{Language: "en", Fallback: "zh", FilesFolder: "files"},
		Graph: GraphOptions{
			DefaultDepth: graph.DefaultDepth,
			Width:        800,
			Height:       600,
			Layout:       graph.DefaultLayout,
		},
	}
}

func newTestService(t *testing.T, catalog index.Catalog) *Service {
	t.Helper()
	_, store := testutil.TestContent(t, testutil.Site())
	svc := NewService(store, catalog, nil, nil, testOptions())
	if _, err := svc.Reload(context.Background(), ""); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return svc
}

func ids(list []models.Document) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.ID)
	}
	return out
}

func TestNotReady(t *testing.T) {
	_, store := testutil.TestContent(t, testutil.Site())
	svc := NewService(store, nil, nil, nil, testOptions())
	if _, err := svc.Documents(Filter{}); !errors.Is(err, apperr.ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

func TestReload_PublishesSnapshot(t *testing.T) {
	svc := newTestService(t, nil)
	snap, err := svc.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Version != 1 || snap.Language != "en" {
		t.Errorf("version=%d language=%q", snap.Version, snap.Language)
	}
	if len(snap.Documents) != 5 {
		t.Errorf("documents = %v", ids(snap.Documents))
	}
	if got := snap.ByID["posts-hello"].Title; got != "Hello" {
		t.Errorf("hello title = %q", got)
	}
	if len(snap.Folders) != 2 || snap.Folders[0].Name != "guide" {
		t.Errorf("folders = %+v", snap.Folders)
	}
	if len(snap.Issues) != 0 {
		t.Errorf("issues = %v", snap.Issues)
	}
}

func TestReload_UnchangedKeepsSnapshot(t *testing.T) {
	svc := newTestService(t, nil)
	first, _ := svc.Snapshot()
	again, err := svc.Reload(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Error("expected the same snapshot for unchanged content")
	}
}

func TestReload_SwitchLanguage(t *testing.T) {
	svc := newTestService(t, nil)
	snap, err := svc.Reload(context.Background(), "zh")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Language != "zh" || snap.Version != 2 {
		t.Errorf("language=%q version=%d", snap.Language, snap.Version)
	}
	if got := snap.ByID["posts-hello"].Title; got != "你好" {
		t.Errorf("hello title = %q", got)
	}

	// An empty language keeps the current one.
	snap, err = svc.Reload(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Language != "zh" {
		t.Errorf("language = %q, want zh", snap.Language)
	}
}

func TestReload_RecordsIssues(t *testing.T) {
	files := testutil.Site()
	files["orphan.md"] = "---\nparent: missing\n---\n# Orphan\n"
	files["dup.md"] = "---\nid: about\n---\n# Duplicate\n"
	_, store := testutil.TestContent(t, files)
	svc := NewService(store, nil, nil, nil, testOptions())
	snap, err := svc.Reload(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	kinds := snap.issueCounts()
	if kinds[string(docs.IssueDanglingParent)] != 1 || kinds[string(docs.IssueDuplicateID)] != 1 {
		t.Errorf("issues = %v", snap.Issues)
	}
}

func TestReload_DuplicateIDResolvesAlikeEverywhere(t *testing.T) {
	_, store := testutil.TestContent(t, map[string]string{
		"a/x.md": "---\nid: dup\ntitle: Zed\n---\nshared words\n",
		"b/y.md": "---\nid: dup\ntitle: Alpha\n---\nshared words\n",
	})
	db := testutil.TestDB(t)
	svc := NewService(store, db, nil, nil, testOptions())
	if _, err := svc.Reload(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.Document("dup")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Path != "/content/b/y.md" {
		t.Errorf("document path = %q, want the later file", doc.Path)
	}
	tree, _ := svc.Tree("")
	if node := docs.FindByID(tree, "dup"); node == nil || node.Document.Path != doc.Path {
		t.Errorf("tree node = %+v", node)
	}
	hits, err := svc.Search("shared", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Path != doc.Path || hits[0].Title != doc.Title {
		t.Errorf("hits = %+v, want %s %q", hits, doc.Path, doc.Title)
	}
}

// gatedStore blocks the first List call until released.
type gatedStore struct {
	storage.Provider
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) List(dir string) ([]models.FileMeta, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Provider.List(dir)
}

func TestReload_SupersededIsDiscarded(t *testing.T) {
	_, store := testutil.TestContent(t, testutil.Site())
	gated := &gatedStore{Provider: store, entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(gated, nil, nil, nil, testOptions())

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Reload(context.Background(), "en")
		errc <- err
	}()
	<-gated.entered

	newer, err := svc.Reload(context.Background(), "zh")
	if err != nil {
		t.Fatalf("newer reload: %v", err)
	}
	close(gated.release)

	if err := <-errc; !IsStale(err) {
		t.Fatalf("older reload err = %v, want ErrStale", err)
	}
	snap, _ := svc.Snapshot()
	if snap != newer || snap.Language != "zh" || snap.Version != 2 {
		t.Errorf("published snapshot = version %d %q", snap.Version, snap.Language)
	}
}

func TestOnReloadHook(t *testing.T) {
	_, store := testutil.TestContent(t, testutil.Site())
	svc := NewService(store, nil, nil, nil, testOptions())
	var got []uint64
	svc.OnReload(func(s *Snapshot) { got = append(got, s.Version) })

	svc.Reload(context.Background(), "")
	svc.Reload(context.Background(), "")
	svc.Reload(context.Background(), "zh")
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("hook versions = %v, want [1 3]", got)
	}
}

func TestDocuments_Filters(t *testing.T) {
	svc := newTestService(t, nil)

	list, err := svc.Documents(Filter{Collection: "docs"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(ids(list), ","); got != "guide-intro,guide-setup" {
		t.Errorf("docs collection = %s", got)
	}

	list, _ = svc.Documents(Filter{Folder: "posts"})
	if got := strings.Join(ids(list), ","); got != "posts-hello" {
		t.Errorf("posts folder = %s", got)
	}

	list, _ = svc.Documents(Filter{Sort: docs.ModePath})
	if got := strings.Join(ids(list), ","); got != "about,guide-index,guide-intro,guide-setup,posts-hello" {
		t.Errorf("path order = %s", got)
	}

	list, _ = svc.Documents(Filter{Collection: "nope"})
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v", list)
	}
}

func TestDocument_NotFound(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Document("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.Links("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("links err = %v", err)
	}
	if _, err := svc.Graph("nope", 1, 0, 0); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("graph err = %v", err)
	}
}

func TestLinks(t *testing.T) {
	svc := newTestService(t, nil)
	links, err := svc.Links("guide-intro")
	if err != nil {
		t.Fatal(err)
	}
	if len(links.Outgoing) != 2 ||
		links.Outgoing[0].ID != "guide-setup" || links.Outgoing[0].Type != models.LinkExplicit ||
		links.Outgoing[1].ID != "posts-hello" || links.Outgoing[1].Type != models.LinkContent {
		t.Errorf("outgoing = %+v", links.Outgoing)
	}
	if len(links.Incoming) != 1 || links.Incoming[0].ID != "guide-setup" || links.Incoming[0].Type != models.LinkParent {
		t.Errorf("incoming = %+v", links.Incoming)
	}

	svc.Links("guide-intro")
	if n := svc.resolver.Len(); n != 1 {
		t.Errorf("cached entries = %d, want 1", n)
	}
}

func TestGraph(t *testing.T) {
	svc := newTestService(t, nil)

	g, err := svc.Graph("about", 3, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Errorf("isolated graph = %+v", g)
	}
	if g.Nodes[0].X != 400 || g.Nodes[0].Y != 300 {
		t.Errorf("center at (%v,%v), want (400,300)", g.Nodes[0].X, g.Nodes[0].Y)
	}

	g, _ = svc.Graph("guide-intro", 1, 200, 200)
	if len(g.Nodes) != 3 || len(g.Edges) != 3 {
		t.Errorf("depth-1 graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	if !g.Nodes[0].IsCenter || g.Nodes[0].X != 100 {
		t.Errorf("first node = %+v", g.Nodes[0])
	}

	g, _ = svc.Graph("guide-intro", 0, 0, 0)
	if len(g.Nodes) != 1 {
		t.Errorf("depth-0 graph has %d nodes", len(g.Nodes))
	}

	for _, bad := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), -10} {
		g, _ = svc.Graph("about", 0, bad, bad)
		if g.Nodes[0].X != 400 || g.Nodes[0].Y != 300 {
			t.Errorf("size %v: center at (%v,%v), want defaults", bad, g.Nodes[0].X, g.Nodes[0].Y)
		}
	}

	g, _ = svc.Graph("about", UseDefaultDepth, 0, 0)
	if g.Depth != graph.DefaultDepth {
		t.Errorf("depth = %d, want default", g.Depth)
	}
	g, _ = svc.Graph("about", -5, 0, 0)
	if g.Depth != graph.DefaultDepth {
		t.Errorf("depth = %d, want default", g.Depth)
	}
	g, _ = svc.Graph("guide-setup", graph.Unbounded, 0, 0)
	if g.Depth != graph.Unbounded || len(g.Nodes) != 3 {
		t.Errorf("unbounded graph: depth %d, %d nodes", g.Depth, len(g.Nodes))
	}
}

func TestTreeAndCollections(t *testing.T) {
	svc := newTestService(t, nil)

	tree, err := svc.Tree("")
	if err != nil {
		t.Fatal(err)
	}
	intro := docs.FindByID(tree, "guide-intro")
	if intro == nil || len(intro.Children) != 1 || intro.Children[0].ID != "guide-setup" {
		t.Errorf("intro node = %+v", intro)
	}

	tree, _ = svc.Tree("docs")
	if len(tree.Children) != 1 || tree.Children[0].ID != "guide-intro" {
		t.Errorf("docs tree = %+v", tree.Children)
	}

	cols, _ := svc.Collections()
	if len(cols) != 2 || cols[0] != (Collection{Name: "default", Count: 3}) || cols[1] != (Collection{Name: "docs", Count: 2}) {
		t.Errorf("collections = %+v", cols)
	}
}

func TestTree_CollectionIssuesAreLogged(t *testing.T) {
	files := testutil.Site()
	files["guide/extra.md"] = "---\ncollection: docs\nparent: about\n---\n# Extra\n"
	_, store := testutil.TestContent(t, files)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewService(store, nil, nil, logger, testOptions())
	if _, err := svc.Reload(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	tree, err := svc.Tree("docs")
	if err != nil {
		t.Fatal(err)
	}
	if docs.FindByID(tree, "guide-extra") == nil {
		t.Fatalf("guide-extra missing from %+v", tree.Children)
	}
	out := buf.String()
	if !strings.Contains(out, "kind="+string(docs.IssueDanglingParent)) || !strings.Contains(out, "id=guide-extra") {
		t.Errorf("log = %q", out)
	}
}

func TestSearch(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		svc := newTestService(t, nil)
		hits, err := svc.Search("install", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 || hits[0].ID != "guide-setup" {
			t.Errorf("hits = %+v", hits)
		}
	})
	t.Run("catalog", func(t *testing.T) {
		db := testutil.TestDB(t)
		svc := newTestService(t, db)
		if n, _ := db.Count(); n != 5 {
			t.Errorf("catalog count = %d", n)
		}
		hits, err := svc.Search("install", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 || hits[0].ID != "guide-setup" {
			t.Errorf("hits = %+v", hits)
		}
	})
}

func TestRender(t *testing.T) {
	svc := newTestService(t, nil)

	page, err := svc.Render("posts-hello")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(page.HTML, `href="#doc-guide-setup"`) {
		t.Errorf("internal link not rewritten: %s", page.HTML)
	}
	if len(page.Headings) != 1 || page.Headings[0].Text != "Hello" {
		t.Errorf("headings = %+v", page.Headings)
	}
	if page.ReadingTime < 1 {
		t.Errorf("reading time = %d", page.ReadingTime)
	}

	page, _ = svc.Render("guide-setup")
	if len(page.Breadcrumb) != 2 || page.Breadcrumb[0].ID != "guide-intro" || page.Breadcrumb[1].ID != "guide-setup" {
		t.Errorf("breadcrumb = %+v", page.Breadcrumb)
	}
	if page.Prev == nil || page.Next != nil {
		t.Errorf("prev=%v next=%v", page.Prev, page.Next)
	}
	if len(page.Links.Incoming) != 2 {
		t.Errorf("incoming = %+v", page.Links.Incoming)
	}
}
