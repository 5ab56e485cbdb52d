package models

import (
	"net/url"
	"strconv"
)

// SortField is a column the backend can order tasks by
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
	SortTitle     SortField = "title"
)

// SortFields lists the sortable columns
var SortFields = []SortField{SortCreatedAt, SortDueDate, SortPriority, SortStatus, SortTitle}

// Order is the sort direction
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Filters are the structured list filters plus sort
type Filters struct {
	Status   Status
	Priority Priority
	DueFrom  string // YYYY-MM-DD
	DueTo    string // YYYY-MM-DD
	Sort     SortField
	Order    Order
}

// DefaultFilters returns no filters sorted newest first
func DefaultFilters() Filters {
	return Filters{Sort: SortCreatedAt, Order: OrderDesc}
}

// ListQuery drives a task list fetch
type ListQuery struct {
	Page     int
	PageSize int
	Query    string
	Filters
}

// Values encodes the query with the keys the backend recognizes.
// Empty values are omitted; sort and order fall back to createdAt/desc.
func (q ListQuery) Values() url.Values {
	v := q.filterValues()
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	return v
}

// ExportValues is Values without pagination
func (q ListQuery) ExportValues() url.Values {
	return q.filterValues()
}

func (q ListQuery) filterValues() url.Values {
	v := url.Values{}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Priority != "" {
		v.Set("priority", string(q.Priority))
	}
	if q.DueFrom != "" {
		v.Set("dueFrom", q.DueFrom)
	}
	if q.DueTo != "" {
		v.Set("dueTo", q.DueTo)
	}
	sort := q.Sort
	if sort == "" {
		sort = SortCreatedAt
	}
	order := q.Order
	if order == "" {
		order = OrderDesc
	}
	v.Set("sort", string(sort))
	v.Set("order", string(order))
	return v
}
