// Package page slices id lists into 1-based pages.
package page

// Window returns the ids of the 1-based page. Pages past the end are empty.
func Window(ids []int64, page, perPage int) []int64 {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(ids) {
		return nil
	}
	end := start + perPage
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

// Pages returns ceil(total / perPage).
func Pages(total, perPage int) int {
	if perPage < 1 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
