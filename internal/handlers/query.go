package handlers

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"oils-admin/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "created_at:desc"
)

var sortField = regexp.MustCompile(`^[a-z_][a-z0-9_.]*$`)

type filterKind int

const (
	textFilter filterKind = iota
	boolFilter
	rangeFilter
)

// Filter maps a query parameter to a match on a stored field. Range filters
// read a lower bound from Param and an upper bound from MaxParam.
type Filter struct {
	Param    string
	MaxParam string
	Field    string
	Kind     filterKind
}

func TextFilter(param, field string) Filter {
	return Filter{Param: param, Field: field, Kind: textFilter}
}

func BoolFilter(param, field string) Filter {
	return Filter{Param: param, Field: field, Kind: boolFilter}
}

func RangeFilter(minParam, maxParam, field string) Filter {
	return Filter{Param: minParam, MaxParam: maxParam, Field: field, Kind: rangeFilter}
}

// ActiveFilter is shared by every resource with an on/off switch.
var ActiveFilter = BoolFilter("active", "is_active")

// PriceFilter bounds the selling price of the priced collections.
var PriceFilter = RangeFilter("min_price", "max_price", "selling_mrp")

// getPaginationParams reads page and page_size. Out-of-range values fall back
// to the defaults; oversized pages are capped.
func getPaginationParams(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// buildSortOptions parses sort=field:asc|desc[,...]. Unknown-looking fields
// are skipped; an empty result falls back to newest first.
func buildSortOptions(c *gin.Context) bson.D {
	sort := bson.D{}
	for _, part := range strings.Split(c.DefaultQuery("sort", defaultSort), ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		field := strings.TrimSpace(fields[0])
		if field == "id" {
			field = "_id"
		}
		if field != "_id" && !sortField.MatchString(field) {
			continue
		}

		order := 1
		if len(fields) > 1 && strings.EqualFold(strings.TrimSpace(fields[1]), "desc") {
			order = -1
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "created_at", Value: -1}}
	}
	return sort
}

// buildFilter turns the supported query parameters into matches.
func buildFilter(c *gin.Context, filters []Filter) (bson.M, error) {
	filter := bson.M{}
	for _, f := range filters {
		if f.Kind == rangeFilter {
			bounds, err := rangeBounds(c, f)
			if err != nil {
				return nil, err
			}
			if bounds != nil {
				filter[f.Field] = bounds
			}
			continue
		}

		raw := strings.TrimSpace(c.Query(f.Param))
		if raw == "" {
			continue
		}
		switch f.Kind {
		case boolFilter:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%s must be true or false", f.Param)
			}
			filter[f.Field] = v
		default:
			filter[f.Field] = raw
		}
	}
	return filter, nil
}

func rangeBounds(c *gin.Context, f Filter) (bson.M, error) {
	bounds := bson.M{}
	var lo, hi float64
	for _, b := range []struct {
		param string
		op    string
		dst   *float64
	}{
		{f.Param, "$gte", &lo},
		{f.MaxParam, "$lte", &hi},
	} {
		raw := strings.TrimSpace(c.Query(b.param))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s must be a non-negative number", b.param)
		}
		*b.dst = v
		bounds[b.op] = v
	}
	if len(bounds) == 0 {
		return nil, nil
	}
	if len(bounds) == 2 && lo > hi {
		return nil, fmt.Errorf("%s cannot exceed %s", f.Param, f.MaxParam)
	}
	return bounds, nil
}

// listQuery collects everything a list endpoint reads from the URL.
func listQuery(c *gin.Context, searchFields []string, filters []Filter) (repository.ListQuery, error) {
	filter, err := buildFilter(c, filters)
	if err != nil {
		return repository.ListQuery{}, err
	}
	page, pageSize := getPaginationParams(c)
	return repository.ListQuery{
		Search:       strings.TrimSpace(c.Query("q")),
		SearchFields: searchFields,
		Filters:      filter,
		Sort:         buildSortOptions(c),
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// cacheKeyFor is stable for equivalent queries regardless of parameter order.
func cacheKeyFor(prefix string, q repository.ListQuery) string {
	v := url.Values{}
	v.Set("q", q.Search)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	for k, val := range q.Filters {
		v.Set("f."+k, fmt.Sprint(val))
	}
	var sort []string
	for _, e := range q.Sort {
		sort = append(sort, fmt.Sprintf("%s:%v", e.Key, e.Value))
	}
	v.Set("sort", strings.Join(sort, ","))
	return prefix + v.Encode()
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 1
	}
	tp := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		tp++
	}
	return tp
}
