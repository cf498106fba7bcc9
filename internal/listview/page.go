package listview

// PageInfo is the pagination footer: "Showing StartItem to EndItem of Total".
type PageInfo struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	StartItem  int
	EndItem    int
}

// NewPageInfo derives the footer numbers. totalPages is trusted when the
// backend sent one; otherwise it is ceil(total/pageSize).
func NewPageInfo(page, pageSize, total, totalPages int) PageInfo {
	if page < 1 {
		page = 1
	}
	p := PageInfo{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
	if pageSize <= 0 {
		return p
	}
	if p.TotalPages <= 0 {
		p.TotalPages = (total + pageSize - 1) / pageSize
	}
	if total <= 0 {
		return p
	}
	p.StartItem = (page-1)*pageSize + 1
	p.EndItem = min(page*pageSize, total)
	if p.StartItem > total {
		p.StartItem, p.EndItem = 0, 0
	}
	return p
}

func (p PageInfo) HasPrev() bool { return p.Page > 1 }

func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }
