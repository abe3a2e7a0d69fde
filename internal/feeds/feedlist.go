package feeds

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseFeedList reads a newsboat-style urls file: one URL per line,
// optional whitespace-separated tags after the URL, # comments and
// blank lines ignored. The first tag (quotes stripped) is kept on the
// FeedSource; extra tags are discarded.
func ParseFeedList(path string) ([]FeedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file %s: %w", path, err)
	}
	defer f.Close()

	var sources []FeedSource
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		url := fields[0]
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}

		src := FeedSource{URL: url}
		if len(fields) > 1 {
			src.Tag = strings.Trim(fields[1], `"`)
		}
		sources = append(sources, src)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feeds file %s: %w", path, err)
	}

	return sources, nil
}
