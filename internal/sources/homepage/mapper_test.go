package homepage

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/items"
)

func TestServiceDrafts(t *testing.T) {
	config := ServicesConfig{
		{
			"Infrastructure": []map[string]ServiceProps{
				{"AdGuard Home": {Href: "https://adguard.domain.ext"}},
				{"Traefik": {Href: " https://traefik.domain.ext "}},
				{"No Href": {Icon: "x.svg"}},
				{"Relative": {Href: "/dashboard"}},
				{"Mail": {Href: "mailto:me@domain.ext"}},
			},
		},
	}

	drafts := ServiceDrafts(config)

	want := []items.Draft{
		{Title: "AdGuard Home", Value: "https://adguard.domain.ext"},
		{Title: "Traefik", Value: "https://traefik.domain.ext"},
	}
	if len(drafts) != len(want) {
		t.Fatalf("ServiceDrafts() = %+v, want %+v", drafts, want)
	}
	for i := range want {
		if drafts[i] != want[i] {
			t.Errorf("draft %d = %+v, want %+v", i, drafts[i], want[i])
		}
	}
}

func TestBookmarkDrafts(t *testing.T) {
	config := BookmarksConfig{
		{
			"Developer": {
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Empty": {}},
				{"": {{Abbr: "SO", Href: "https://stackoverflow.com"}}},
				{"Broken": {{Abbr: "BR", Href: "not a url"}}},
			},
		},
	}

	drafts := BookmarkDrafts(config)
	if len(drafts) != 2 {
		t.Fatalf("BookmarkDrafts() returned %v drafts, want 2: %+v", len(drafts), drafts)
	}
	if drafts[0].Title != "Github" || drafts[0].Value != "https://github.com/" {
		t.Errorf("first draft = %+v", drafts[0])
	}
	if drafts[1].Title != "SO" {
		t.Errorf("blank name should fall back to abbr, got %q", drafts[1].Title)
	}
}

type fakeWriter struct {
	stored []domain.StoredItem
	failOn string
}

func (f *fakeWriter) List() []domain.StoredItem { return f.stored }

func (f *fakeWriter) Add(_ context.Context, d items.Draft) (domain.StoredItem, error) {
	if d.Value == f.failOn {
		return domain.StoredItem{}, errors.New("disk full")
	}
	it := domain.StoredItem{Title: d.Title, Value: d.Value}
	f.stored = append(f.stored, it)
	return it, nil
}

func TestImportSkipsExistingValues(t *testing.T) {
	w := &fakeWriter{stored: []domain.StoredItem{{Value: "https://github.com/"}}}
	drafts := []items.Draft{
		{Title: "Github", Value: "https://github.com/"},
		{Title: "Wiki", Value: "https://wiki.domain.ext"},
		{Title: "Wiki again", Value: "https://wiki.domain.ext"},
	}

	res, err := Import(context.Background(), w, drafts)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Added != 1 || res.Skipped != 2 {
		t.Errorf("Import() = %+v, want 1 added 2 skipped", res)
	}

	res, _ = Import(context.Background(), w, drafts)
	if res.Added != 0 {
		t.Errorf("second Import() should add nothing, got %+v", res)
	}
}

func TestImportStopsOnError(t *testing.T) {
	w := &fakeWriter{failOn: "https://b.example"}
	drafts := []items.Draft{
		{Value: "https://a.example"},
		{Value: "https://b.example"},
		{Value: "https://c.example"},
	}

	res, err := Import(context.Background(), w, drafts)
	if err == nil {
		t.Fatal("Import() should surface the add error")
	}
	if res.Added != 1 {
		t.Errorf("Import() added %v before failing, want 1", res.Added)
	}
}
