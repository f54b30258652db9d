package pattern

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	maxFileSizeBytes  = 2 << 20 // 2MiB hard cap
	maxLineLength     = 4000    // pathological-content guard
	cacheCapacity     = 1000
	cacheTTL          = time.Hour
)

// FileScanner runs the bounded file-content checks (spec.md §4.8's
// second layer) with an in-memory LRU query cache of cacheCapacity
// entries, each expiring after cacheTTL. The cache is not persisted:
// the store migrates a pattern_cache table, but this scanner neither
// reads nor writes it.
type FileScanner struct {
	cache *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	detections []Detection
	expiresAt  time.Time
}

func NewFileScanner() (*FileScanner, error) {
	c, err := lru.New[string, cacheEntry](cacheCapacity)
	if err != nil {
		return nil, err
	}
	return &FileScanner{cache: c}, nil
}

// ScanFile runs the raw new/malloc/free, missing-const-getter, and
// god-class-by-file-size checks, bounded by perFileCap; there is no
// long-parameter-literal check. Pathological content (overlong lines) is skipped, not
// flagged, per spec.md's "files with pathological content are
// skipped" rule.
func (fs *FileScanner) ScanFile(ctx context.Context, symbolID uint64, filePath string, content []byte, perFileCap time.Duration) []Detection {
	if len(content) > maxFileSizeBytes {
		return nil
	}
	if cacheKey := filePath + ":" + contentFingerprint(content); fs.cache != nil {
		if entry, ok := fs.cache.Get(cacheKey); ok && time.Now().Before(entry.expiresAt) {
			return entry.detections
		}
		dets := fs.scan(ctx, symbolID, filePath, content, perFileCap)
		fs.cache.Add(cacheKey, cacheEntry{detections: dets, expiresAt: time.Now().Add(cacheTTL)})
		return dets
	}
	return fs.scan(ctx, symbolID, filePath, content, perFileCap)
}

func (fs *FileScanner) scan(ctx context.Context, symbolID uint64, filePath string, content []byte, perFileCap time.Duration) []Detection {
	deadline := time.Now().Add(perFileCap)

	var dets []Detection
	scanner := bufio.NewScanner(content2Reader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	godClassBySize := bytes.Count(content, []byte("\n")) > godClassFileLineThreshold
	if godClassBySize {
		dets = append(dets, Detection{SymbolID: symbolID, Name: "god_class_by_file_size", IsAntiPattern: true, Detail: filePath})
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if ctx.Err() != nil || time.Now().After(deadline) {
			break // partial results for this file
		}
		line := scanner.Text()
		if len(line) > maxLineLength {
			continue // pathological content: skip this line, not a finding
		}
		dets = append(dets, lineChecks(symbolID, filePath, lineNo, line)...)
	}
	return dets
}

const godClassFileLineThreshold = 1000

func lineChecks(symbolID uint64, filePath string, lineNo int, line string) []Detection {
	var dets []Detection
	trimmed := strings.TrimSpace(line)

	if strings.Contains(trimmed, "malloc(") || strings.Contains(trimmed, "free(") ||
		(strings.Contains(trimmed, "new ") && !strings.Contains(trimmed, "make_unique") && !strings.Contains(trimmed, "make_shared")) {
		dets = append(dets, Detection{
			SymbolID: symbolID, Name: "raw_memory_management", IsAntiPattern: true,
			Detail: filePath,
		})
	}

	if isGetterSignature(trimmed) && !strings.Contains(trimmed, "const") {
		dets = append(dets, Detection{
			SymbolID: symbolID, Name: "missing_const_getter", IsAntiPattern: true,
			Detail: filePath,
		})
	}

	return dets
}

// isGetterSignature matches a declaration-shaped line naming a Get*
// method: `Type GetFoo() {` or `Type GetFoo();`.
func isGetterSignature(line string) bool {
	idx := strings.Index(line, "Get")
	if idx < 0 {
		return false
	}
	rest := line[idx:]
	open := strings.Index(rest, "(")
	shut := strings.Index(rest, ")")
	return open > 0 && shut > open
}

// contentFingerprint is a cheap, non-cryptographic cache key component
// (content-hash gating with a real hash is C1's job, §4.1) — here we
// only need to invalidate the LRU entry when a file's bytes change.
func contentFingerprint(content []byte) string {
	var h uint64 = 1469598103934665603 // FNV offset basis
	for _, b := range content {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return strconv.FormatUint(h, 16)
}

func content2Reader(content []byte) *bytes.Reader {
	return bytes.NewReader(content)
}
