package core

import "time"

// CategoryUnknown 是缺失分类的哨兵值：产品的分类集合永远非空。
const CategoryUnknown = "uncategorized"

// Location 是公司所在地坐标，用于地理距离打分。
type Location struct {
	Latitude  float64
	Longitude float64
}

// GeoPoint 是请求侧的地理锚点。
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Material 是挂在产品下的物料（0 或 1 条，left join 缺失时为零值）。
type Material struct {
	Name              string
	Description       string
	AvailableQuantity float64
	UnitOfMeasure     string
}

// Company 是产品/用户归属的公司。NACECode 参与用户内容相似度的文本记录。
type Company struct {
	ID       string
	Name     string
	NACECode string
	Location Location
}

// Product 是市场中的资源条目（供给或需求）。
// 一次排序会话内不可变；仅在特征空间重建时刷新。
type Product struct {
	ID         string
	Name       string
	SupplyType string
	Categories []string // 最多三级，已去重；缺失时为哨兵值
	ValidFrom  time.Time
	ValidTo    time.Time
	CompanyID  string
	Material   Material
	Location   Location
}

// NormalizeCategories 去重分类集合并保证非空（缺失时填充哨兵值）。
// 保序去重：同一分类出现在多级时只保留首次出现。
func NormalizeCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return []string{CategoryUnknown}
	}
	return out
}

// User 是外部用户目录中的一行。
type User struct {
	ID        string
	CompanyID string
}

// StoredPreference 是外部存储中的用户偏好行，矩阵构建的内容侧输入。
// 字段保持外部存储的三级分类拆分形式；引擎内的请求偏好见 PreferenceQuery。
type StoredPreference struct {
	UserID      string
	Categories1 string
	Categories2 string
	Categories3 string
	Units       string
	Keywords    string
	SupplyType  string
	ValidFrom   time.Time
	ValidTo     time.Time
}
