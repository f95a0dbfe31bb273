package render

// Pagination window constants. pageRange pages are shown on either
// side of the current page; the lead/tail constants control when the
// boundary blocks and their ellipses appear.
const (
	pageRange        = 2
	leadBlockAfter   = 3 // show the "1" block once current exceeds this
	leadDotsAfter    = 4 // add the ellipsis once current exceeds this
	tailBlockBuffer  = 2 // show the last-page block when endPage < total-2
	tailDotsBuffer   = 3 // add the ellipsis when endPage < total-3
)

// PageItemKind discriminates the entries of a pagination window.
type PageItemKind int

const (
	ItemPrev PageItemKind = iota
	ItemNext
	ItemPage
	ItemEllipsis
)

// PageItem is one control in the pagination cluster.
type PageItem struct {
	Kind     PageItemKind
	Page     int // target page for Prev/Next/Page items
	Current  bool
	Disabled bool
}

// PageWindow computes the pagination cluster for a current page within
// totalPages. Prev and next are always present and disabled at the
// boundaries; numbered buttons cover current ± pageRange with leading
// and trailing boundary blocks per the constants above.
func PageWindow(current, totalPages int) []PageItem {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	} else if current > totalPages {
		current = totalPages
	}

	items := []PageItem{{Kind: ItemPrev, Page: current - 1, Disabled: current == 1}}

	startPage := max(1, current-pageRange)
	endPage := min(totalPages, current+pageRange)

	if current > leadBlockAfter {
		items = append(items, PageItem{Kind: ItemPage, Page: 1})
		if current > leadDotsAfter {
			items = append(items, PageItem{Kind: ItemEllipsis})
		}
	}

	for p := startPage; p <= endPage; p++ {
		if p == 1 && current > leadBlockAfter {
			continue // already emitted by the leading block
		}
		items = append(items, PageItem{Kind: ItemPage, Page: p, Current: p == current})
	}

	if endPage < totalPages-tailBlockBuffer {
		if endPage < totalPages-tailDotsBuffer {
			items = append(items, PageItem{Kind: ItemEllipsis})
		}
		items = append(items, PageItem{Kind: ItemPage, Page: totalPages})
	}

	items = append(items, PageItem{Kind: ItemNext, Page: current + 1, Disabled: current == totalPages})
	return items
}

// TotalsRange computes the 1-based first and last visible record
// numbers for the totals line. Both are 0 for an empty result set.
func TotalsRange(page, perPage, total int) (start, end int) {
	if total <= 0 || perPage <= 0 {
		return 0, 0
	}
	start = (page-1)*perPage + 1
	end = min(page*perPage, total)
	if start > end {
		return 0, 0
	}
	return start, end
}
