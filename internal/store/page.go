package store

// DefaultPageSize is the number of documents per page when none is given.
const DefaultPageSize = 20

// PageResult is one page of a document list.
type PageResult struct {
	Items      []Document `json:"items"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int        `json:"total"`
}

// Page returns page n (1-indexed) of the canonical list.
func (ix *Index) Page(n, size int) PageResult {
	return Paginate(ix.docs, n, size)
}

// Paginate slices docs into pages of size and returns page n. Out-of-range
// page numbers are clamped into [1, TotalPages]; a non-positive size falls
// back to DefaultPageSize. An empty list has exactly one (empty) page.
func Paginate(docs []Document, n, size int) PageResult {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(docs)
	totalPages := max(1, (total+size-1)/size)
	n = min(max(n, 1), totalPages)

	start := (n - 1) * size
	end := min(start+size, total)
	items := make([]Document, end-start)
	copy(items, docs[start:end])

	return PageResult{
		Items:      items,
		Page:       n,
		TotalPages: totalPages,
		Total:      total,
	}
}
