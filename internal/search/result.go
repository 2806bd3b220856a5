package search

// WorkItem is a pending (path, query) pair awaiting classification.
// Items are created by the seed invocation and by directory
// expansion, consumed exactly once by the dispatch loop, and never
// mutated.
type WorkItem struct {
	Path  string
	Query string
}

// ResultKind discriminates the SearchResult union.
type ResultKind int

const (
	// ResultContent is one query occurrence inside a file's bytes.
	ResultContent ResultKind = iota
	// ResultName is an entry whose name satisfied the name-match
	// predicate for its kind (full-path suffix for directories,
	// base-name contains for files).
	ResultName
	// ResultError is a failure attributable to one work item.
	ResultError
)

// SearchResult is a single report flowing from the dispatcher or a
// worker task to the reporter. Immutable once constructed.
type SearchResult struct {
	Kind   ResultKind
	Path   string
	Offset int      // ResultContent: one past the match's final byte
	Err    error    // ResultError only
	Item   WorkItem // ResultError only: the item being processed
}

// ContentMatch reports a substring occurrence ending at offset end.
func ContentMatch(path string, end int) SearchResult {
	return SearchResult{Kind: ResultContent, Path: path, Offset: end}
}

// NameMatch reports an entry whose name matched the query.
func NameMatch(path string) SearchResult {
	return SearchResult{Kind: ResultName, Path: path}
}

// ErrorResult reports a per-item failure with its originating item.
func ErrorResult(err error, item WorkItem) SearchResult {
	return SearchResult{Kind: ResultError, Err: err, Item: item}
}
