package postgres

// PagedData is returned from the Paged method.
// It contains paged database records and pagination metadata.
type PagedData struct {
	Items      any   `json:"items"`
	Page       int64 `json:"page"`
	PerPage    int64 `json:"perPage"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// DefaultGroupCount is how many page links a Pagenation groups together.
const DefaultGroupCount = 5

// A Pagenation describes the page links around the current page of a PagedData.
//
// Pages are grouped groupCount at a time, e.g., 1-5, 6-10;
// PrevPage and NextPage point to the neighboring groups and are 0 when there is none.
type Pagenation struct {
	NowPage    int64 `json:"nowPage"`
	TotalCount int64 `json:"totalCount"`
	ListCount  int64 `json:"listCount"`
	TotalPage  int64 `json:"totalPage"`
	GroupCount int64 `json:"groupCount"`
	TotalGroup int64 `json:"totalGroup"`
	NowGroup   int64 `json:"nowGroup"`
	GroupStart int64 `json:"groupStart"`
	GroupEnd   int64 `json:"groupEnd"`
	PrevPage   int64 `json:"prevPage"`
	NextPage   int64 `json:"nextPage"`
	Offset     int64 `json:"offset"`
}

// Pagenation computes the page links for pd, grouping groupCount pages together.
// A groupCount below 1 uses DefaultGroupCount.
func (pd PagedData) Pagenation(groupCount int64) Pagenation {
	if groupCount < 1 {
		groupCount = DefaultGroupCount
	}

	p := Pagenation{
		NowPage:    max(1, pd.Page),
		TotalCount: pd.TotalItems,
		ListCount:  max(1, pd.PerPage),
		TotalPage:  max(1, pd.TotalPages),
		GroupCount: groupCount,
	}

	p.NowPage = min(p.NowPage, p.TotalPage)
	p.TotalGroup = ceilDiv(p.TotalPage, groupCount)
	p.NowGroup = ceilDiv(p.NowPage, groupCount)
	p.GroupStart = (p.NowGroup-1)*groupCount + 1
	p.GroupEnd = min(p.NowGroup*groupCount, p.TotalPage)

	if p.NowGroup > 1 {
		p.PrevPage = p.GroupStart - 1
	}

	if p.NowGroup < p.TotalGroup {
		p.NextPage = p.GroupEnd + 1
	}

	p.Offset = (p.NowPage - 1) * p.ListCount

	return p
}
