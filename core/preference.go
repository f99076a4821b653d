package core

import (
	"math"
	"time"
)

// PreferenceQuery 是一次内容排序请求的结构化偏好。
// 在边界处一次性校验（Validate），引擎内部不再做动态字段解释。
// 不作为引擎状态保留：一行偏好只驱动一次请求。
type PreferenceQuery struct {
	Categories  []string // 三级偏好分类合并后的列表
	Keywords    []string
	SupplyTypes []string
	Units       []string

	MinQuantity float64
	MaxQuantity float64 // 0 表示不设上限

	ValidFrom *time.Time
	ValidTo   *time.Time

	Anchor      *GeoPoint // 地理锚点，可选
	MaxRadiusKm float64   // 搜索半径；与 Anchor 同时给出时启用地理混合

	TopN int
}

// 偏好校验错误（边界校验，属于 INVALID_INPUT 类别）。
var (
	ErrInvalidTopN       = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "top_n must be greater than 0")
	ErrInvalidCoordinate = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "coordinates out of range")
	ErrInvalidQuantity   = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "min quantity greater than max quantity")
	ErrInvalidWindow     = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "valid_from after valid_to")
)

// Validate 校验请求边界条件：结果数、坐标范围、数量上下界、有效期窗口。
// 通过校验的请求进入引擎后不再返回输入类错误。
func (q *PreferenceQuery) Validate() error {
	if q.TopN <= 0 {
		return ErrInvalidTopN
	}
	if q.Anchor != nil {
		if math.Abs(q.Anchor.Latitude) > 90 || math.Abs(q.Anchor.Longitude) > 180 {
			return ErrInvalidCoordinate
		}
	}
	if q.MaxQuantity > 0 && q.MinQuantity > q.MaxQuantity {
		return ErrInvalidQuantity
	}
	if q.ValidFrom != nil && q.ValidTo != nil && q.ValidFrom.After(*q.ValidTo) {
		return ErrInvalidWindow
	}
	return nil
}

// Empty 判断偏好是否完全为空（无分类/关键词/供给类型/单位）。
// 空偏好走兜底查询路径，而不是报错。
func (q *PreferenceQuery) Empty() bool {
	return len(q.Categories) == 0 &&
		len(q.Keywords) == 0 &&
		len(q.SupplyTypes) == 0 &&
		len(q.Units) == 0
}

// UseGeo 判断本次请求是否启用地理混合。
func (q *PreferenceQuery) UseGeo() bool {
	return q.Anchor != nil && q.MaxRadiusKm > 0
}
