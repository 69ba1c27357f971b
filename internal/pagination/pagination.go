package pagination

import (
	"strconv"

	"VidTube/internal/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// 单页上限，防止一把捞空整张表
	MaxLimit = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params 所有列表接口共用的分页排序参数，统一在这里解析和校验
type Params struct {
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

// Parse 解析query里的分页排序参数：空串走默认值，page<1或limit<1直接报参数错误。
// allowedSorts是该接口允许的排序列白名单，sortBy最终会拼进SQL，绝不能放行任意输入
func Parse(pageStr, limitStr, sortBy, sortType string, allowedSorts ...string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit, SortBy: "created_at", SortType: SortDesc}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return Params{}, apperror.InvalidArgument("page必须是整数")
		}
		p.Page = page
	}
	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return Params{}, apperror.InvalidArgument("limit必须是整数")
		}
		p.Limit = limit
	}
	if p.Page < 1 || p.Limit < 1 {
		return Params{}, apperror.InvalidArgument("page和limit必须是正整数")
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if sortBy != "" {
		ok := false
		for _, s := range allowedSorts {
			if s == sortBy {
				ok = true
				break
			}
		}
		if !ok {
			return Params{}, apperror.InvalidArgument("不支持按该字段排序")
		}
		p.SortBy = sortBy
	}
	switch sortType {
	case "":
	case SortAsc, SortDesc:
		p.SortType = sortType
	default:
		return Params{}, apperror.InvalidArgument("sortType只能是asc或desc")
	}

	return p, nil
}

// Offset = (page-1)*limit
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause 拼成gorm的Order参数，SortBy已经过白名单校验
func (p Params) OrderClause() string {
	return p.SortBy + " " + p.SortType
}

// TotalPages = ceil(total/limit)，和取数用同一个total，保证口径一致
func (p Params) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
