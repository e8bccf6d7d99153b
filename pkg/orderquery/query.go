// Package orderquery runs the admin order list pipeline: search, status,
// payment method and date range filters, then a sort, then a page.
package orderquery

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const PageSize = 10

type DateRange string

const (
	RangeAll    DateRange = ""
	RangeToday  DateRange = "today"
	Range7Days  DateRange = "7d"
	Range30Days DateRange = "30d"
	Range90Days DateRange = "90d"
)

type Sort string

const (
	SortNewest     Sort = "newest"
	SortOldest     Sort = "oldest"
	SortAmountDesc Sort = "amount_desc"
	SortAmountAsc  Sort = "amount_asc"
	SortStatus     Sort = "status"
	SortCustomer   Sort = "customer"
)

var (
	ErrUnknownRange = errors.New("unknown date range")
	ErrUnknownSort  = errors.New("unknown sort")
)

// Query holds the dashboard inputs. Zero values mean "all" for filters,
// SortNewest for Sort and the first page for Page.
type Query struct {
	Search        string
	Status        Status
	PaymentMethod string
	Range         DateRange
	Sort          Sort
	Page          int
}

type Page struct {
	Items      []Order `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// ParseValues reads a Query from URL query parameters q, status,
// payment_method, range, sort and page.
func ParseValues(v url.Values) (Query, error) {
	q := Query{
		Search:        strings.TrimSpace(v.Get("q")),
		PaymentMethod: strings.TrimSpace(v.Get("payment_method")),
	}
	if s := v.Get("status"); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			return Query{}, err
		}
		q.Status = st
	}

	switch r := DateRange(strings.ToLower(v.Get("range"))); r {
	case RangeAll, RangeToday, Range7Days, Range30Days, Range90Days:
		q.Range = r
	default:
		return Query{}, fmt.Errorf("%q: %w", r, ErrUnknownRange)
	}

	switch s := Sort(strings.ToLower(v.Get("sort"))); s {
	case "":
		q.Sort = SortNewest
	case SortNewest, SortOldest, SortAmountDesc, SortAmountAsc, SortStatus, SortCustomer:
		q.Sort = s
	default:
		return Query{}, fmt.Errorf("%q: %w", s, ErrUnknownSort)
	}

	if p := v.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err == nil {
			q.Page = n
		}
	}
	return q, nil
}

// Values is the inverse of ParseValues. Empty fields are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("q", q.Search)
	set("status", string(q.Status))
	set("payment_method", q.PaymentMethod)
	set("range", string(q.Range))
	set("sort", string(q.Sort))
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// Apply runs the whole pipeline. now anchors the date range filter.
func Apply(orders []Order, q Query, now time.Time) Page {
	return Paginate(SortOrders(Filter(orders, q, now), q.Sort), q.Page)
}

// Filter keeps the orders matching every non-empty filter of q, in input
// order.
func Filter(orders []Order, q Query, now time.Time) []Order {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if needle != "" && !matches(o, needle) {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.PaymentMethod != "" && !strings.EqualFold(o.PaymentMethod, q.PaymentMethod) {
			continue
		}
		if !inRange(o.CreatedAt, q.Range, now) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matches(o Order, needle string) bool {
	fields := []string{o.ID.String(), o.CustomerName, o.CustomerEmail, o.CustomerPhone}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.ProductName), needle) {
			return true
		}
	}
	return false
}

func inRange(created time.Time, r DateRange, now time.Time) bool {
	var days int
	switch r {
	case RangeToday:
		c := created.In(now.Location())
		y1, m1, d1 := c.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case Range7Days:
		days = 7
	case Range30Days:
		days = 30
	case Range90Days:
		days = 90
	default:
		return true
	}
	return !created.Before(now.Add(-time.Duration(days) * 24 * time.Hour))
}

// SortOrders returns a sorted copy. Ties keep their input order.
func SortOrders(orders []Order, s Sort) []Order {
	out := make([]Order, len(orders))
	copy(out, orders)

	var less func(a, b Order) bool
	switch s {
	case SortOldest:
		less = func(a, b Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortAmountDesc:
		less = func(a, b Order) bool { return a.TotalAmount.GreaterThan(b.TotalAmount) }
	case SortAmountAsc:
		less = func(a, b Order) bool { return a.TotalAmount.LessThan(b.TotalAmount) }
	case SortStatus:
		less = func(a, b Order) bool { return a.Status < b.Status }
	case SortCustomer:
		less = func(a, b Order) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}
	default:
		less = func(a, b Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Paginate cuts a PageSize page out of orders. page is clamped to the
// available range, so an empty list yields page 1 of 0.
func Paginate(orders []Order, page int) Page {
	total := len(orders)
	totalPages := (total + PageSize - 1) / PageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]Order, end-start)
	copy(items, orders[start:end])
	return Page{
		Items:      items,
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
