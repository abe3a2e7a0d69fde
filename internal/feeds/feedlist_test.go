package feeds

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFeedList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write feeds file: %v", err)
	}
	return path
}

func TestParseFeedList(t *testing.T) {
	path := writeFeedList(t, `https://example.com/feed.xml
https://example.org/rss "tech" "daily"
# comment

https://example.net/atom.xml
`)

	sources, err := ParseFeedList(path)
	if err != nil {
		t.Fatalf("ParseFeedList failed: %v", err)
	}

	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	if sources[0].URL != "https://example.com/feed.xml" {
		t.Errorf("unexpected URL: %s", sources[0].URL)
	}
	if sources[1].URL != "https://example.org/rss" {
		t.Errorf("unexpected URL: %s", sources[1].URL)
	}
	if sources[1].Tag != "tech" {
		t.Errorf("expected tag 'tech', got %q", sources[1].Tag)
	}
	if sources[2].URL != "https://example.net/atom.xml" {
		t.Errorf("unexpected URL: %s", sources[2].URL)
	}
}

func TestParseFeedListSkipsNonHTTP(t *testing.T) {
	path := writeFeedList(t, `ftp://example.com/feed
file:///etc/feeds
https://example.com/ok
`)

	sources, err := ParseFeedList(path)
	if err != nil {
		t.Fatalf("ParseFeedList failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].URL != "https://example.com/ok" {
		t.Errorf("unexpected URL: %s", sources[0].URL)
	}
}

func TestParseFeedListMissingFile(t *testing.T) {
	_, err := ParseFeedList(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHeadlineKey(t *testing.T) {
	withLink := Headline{Title: "A story", Link: "https://example.com/a", Source: "Feed"}
	withoutLink := Headline{Title: "A story", Source: "Feed"}

	if withLink.Key() == withoutLink.Key() {
		t.Error("link and title keys should differ")
	}

	sameTitleOtherSource := Headline{Title: "A story", Source: "Other"}
	if withoutLink.Key() == sameTitleOtherSource.Key() {
		t.Error("keys should include the source name")
	}
}
