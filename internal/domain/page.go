package domain

import "fmt"

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PageRequest selects one page of orders, optionally narrowed to a status.
// The status filter applies to both the count and the fetched page.
type PageRequest struct {
	Page   int
	Limit  int
	Status *OrderStatus
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	return p
}

func (p PageRequest) Validate() error {
	if p.Status == nil {
		return nil
	}

	if _, err := ToOrderStatus(string(*p.Status)); err != nil {
		return fmt.Errorf("status[%s]: %w", *p.Status, err)
	}

	return nil
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageMetadata struct {
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	LastPage   int64 `json:"lastPage"`
}

type Page struct {
	Metadata PageMetadata `json:"metadata"`
	Data     []Order      `json:"data"`
}

// NewPage computes lastPage = ceil(totalCount/limit), 0 when the view is empty.
func NewPage(req PageRequest, totalCount int64, data []Order) Page {
	lastPage := (totalCount + int64(req.Limit) - 1) / int64(req.Limit)

	if data == nil {
		data = []Order{}
	}

	return Page{
		Metadata: PageMetadata{
			TotalCount: totalCount,
			Page:       req.Page,
			LastPage:   lastPage,
		},
		Data: data,
	}
}
