package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newsradar-io/newsradar/internal/cache"
)

// Candidate filenames per feed kind, tried in order; the first file
// that exists and decodes wins. Collector versions disagree on naming,
// so the lists cover every known spelling.
var (
	newsCandidates   = []string{"latest-24h.json", "latest.json", "snapshot.json"}
	socialCandidates = []string{"twitter.json", "twitter-latest.json", "social.json"}
	videoCandidates  = []string{"youtube.json", "youtube-latest.json"}
)

// Kind selects which feed's candidate chain to load
type Kind string

const (
	KindNews   Kind = "news"
	KindSocial Kind = "social"
	KindVideo  Kind = "video"
)

// Loader resolves and decodes snapshot files. Reads go through an
// optional byte cache keyed by path and mtime, so a run that walks the
// same candidate twice touches the disk once.
type Loader struct {
	dir   string
	cache cache.Cache
}

// NewLoader creates a loader for dir. c may be nil to disable caching.
func NewLoader(dir string, c cache.Cache) *Loader {
	return &Loader{
		dir:   dir,
		cache: c,
	}
}

// Result describes one resolved snapshot
type Result struct {
	Root    any      // Decoded structure, nil when nothing usable was found
	Path    string   // Winning candidate path, "" when none
	Label   string   // Source label to seed extraction with
	Skipped []string // Candidates that existed but could not be used
}

// Found reports whether any candidate resolved to usable data.
func (r *Result) Found() bool { return r.Root != nil }

// Load resolves the candidate chain for the given kind. A missing or
// unreadable snapshot is not an error: the result simply reports
// nothing found and the pipeline degrades to an empty feed.
func (l *Loader) Load(kind Kind) *Result {
	switch kind {
	case KindSocial:
		res := l.loadFirst(socialCandidates)
		res.Label = "twitter"
		res.Root = unwrapFeed(res.Root, "twitter")
		return res
	case KindVideo:
		res := l.loadFirst(videoCandidates)
		res.Label = "youtube"
		res.Root = unwrapFeed(res.Root, "youtube")
		return res
	default:
		return l.loadFirst(newsCandidates)
	}
}

func (l *Loader) loadFirst(candidates []string) *Result {
	res := &Result{}

	for _, name := range candidates {
		path := filepath.Join(l.dir, name)

		data, err := l.readFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}

		var root any
		if err := json.Unmarshal(data, &root); err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if root == nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: decoded to null", name))
			continue
		}

		res.Root = root
		res.Path = path
		return res
	}

	return res
}

// readFile returns the file's bytes, keyed in the cache by path and
// mtime so a replaced snapshot is never served stale.
func (l *Loader) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if l.cache == nil {
		return os.ReadFile(path)
	}

	key := cache.Key(path, info.ModTime().UTC().Format(time.RFC3339Nano))
	if data, ok := l.cache.Get(key); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_ = l.cache.Set(key, data, 0)

	return data, nil
}

// unwrapFeed digs the item list out of secondary snapshot wrappers.
// Collectors emit either a bare list, {"twitter": [...]}, or
// {"items": [...]}; unwrapping keeps the feed label attached to the
// items instead of the structural wrapper key.
func unwrapFeed(root any, key string) any {
	m, ok := root.(map[string]any)
	if !ok {
		return root
	}
	if v, ok := m[key]; ok {
		return v
	}
	if v, ok := m["items"]; ok {
		return v
	}
	return root
}
