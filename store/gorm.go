package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecoloop/matchkit/core"
)

// GormWarehouse 是关系型数据库数据仓，生产环境默认实现。
// 只读：查询全部走原生 SQL，产品查询在库内完成物料/公司/位置联结，
// 过期产品（valid_to 早于今天）在 SQL 层裁掉，不进特征空间。
type GormWarehouse struct {
	db *gorm.DB
}

// NewGormWarehouse 用 Postgres DSN 打开数据仓。
func NewGormWarehouse(dsn string) (*GormWarehouse, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("warehouse open: %w", err)
	}
	return &GormWarehouse{db: db}, nil
}

// NewGormWarehouseDB 复用一个已打开的 *gorm.DB（连接池由调用方管理）。
func NewGormWarehouseDB(db *gorm.DB) *GormWarehouse {
	return &GormWarehouse{db: db}
}

func (w *GormWarehouse) Name() string { return "gorm" }

type productRow struct {
	ID                  string    `gorm:"column:id"`
	Name                string    `gorm:"column:name"`
	SupplyType          string    `gorm:"column:supply_type"`
	Categories          string    `gorm:"column:categories"`
	ValidFrom           time.Time `gorm:"column:valid_from"`
	ValidTo             time.Time `gorm:"column:valid_to"`
	CompanyID           string    `gorm:"column:company_id"`
	MaterialName        string    `gorm:"column:material_name"`
	MaterialDescription string    `gorm:"column:material_description"`
	AvailableQuantity   float64   `gorm:"column:available_quantity"`
	UnitOfMeasure       string    `gorm:"column:unit_of_measure"`
	Latitude            float64   `gorm:"column:latitude"`
	Longitude           float64   `gorm:"column:longitude"`
}

func (w *GormWarehouse) Products(ctx context.Context) ([]core.Product, error) {
	var rows []productRow
	err := w.db.WithContext(ctx).Raw(`
		SELECT p.id, p.name, p.supply_type, p.categories,
		       p.valid_from, p.valid_to, p.company_id,
		       COALESCE(m.name, '')                AS material_name,
		       COALESCE(m.description, '')         AS material_description,
		       COALESCE(m.available_quantity, 0)   AS available_quantity,
		       COALESCE(m.unit_of_measure, '')     AS unit_of_measure,
		       COALESCE(l.latitude, 0)             AS latitude,
		       COALESCE(l.longitude, 0)            AS longitude
		FROM products p
		LEFT JOIN materials m ON m.product_id = p.id
		LEFT JOIN companies c ON c.id = p.company_id
		LEFT JOIN locations l ON l.id = c.location_id
		WHERE p.valid_to >= CURRENT_DATE
		ORDER BY p.id`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("warehouse products: %w", err)
	}

	out := make([]core.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Product{
			ID:         r.ID,
			Name:       r.Name,
			SupplyType: r.SupplyType,
			Categories: core.NormalizeCategories(parseCategories(r.Categories)),
			ValidFrom:  r.ValidFrom,
			ValidTo:    r.ValidTo,
			CompanyID:  r.CompanyID,
			Material: core.Material{
				Name:              r.MaterialName,
				Description:       r.MaterialDescription,
				AvailableQuantity: r.AvailableQuantity,
				UnitOfMeasure:     r.UnitOfMeasure,
			},
			Location: core.Location{Latitude: r.Latitude, Longitude: r.Longitude},
		})
	}
	return out, nil
}

func (w *GormWarehouse) Feedback(ctx context.Context) ([]core.Feedback, error) {
	var rows []struct {
		UserID    string `gorm:"column:user_id"`
		ProductID string `gorm:"column:product_id"`
		IsLiked   bool   `gorm:"column:is_liked"`
	}
	err := w.db.WithContext(ctx).Raw(`
		SELECT user_id, product_id, is_liked
		FROM user_feedback`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("warehouse feedback: %w", err)
	}
	out := make([]core.Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Feedback{UserID: r.UserID, ProductID: r.ProductID, Liked: r.IsLiked})
	}
	return out, nil
}

func (w *GormWarehouse) Preferences(ctx context.Context) ([]core.StoredPreference, error) {
	var rows []struct {
		UserID      string    `gorm:"column:user_id"`
		Categories1 string    `gorm:"column:preferred_categories1"`
		Categories2 string    `gorm:"column:preferred_categories2"`
		Categories3 string    `gorm:"column:preferred_categories3"`
		Units       string    `gorm:"column:preferred_unit_of_measures"`
		Keywords    string    `gorm:"column:preferred_keywords"`
		SupplyType  string    `gorm:"column:preferred_supply_type"`
		ValidFrom   time.Time `gorm:"column:preferred_valid_from"`
		ValidTo     time.Time `gorm:"column:preferred_valid_to"`
	}
	err := w.db.WithContext(ctx).Raw(`
		SELECT user_id,
		       COALESCE(preferred_categories1, '')      AS preferred_categories1,
		       COALESCE(preferred_categories2, '')      AS preferred_categories2,
		       COALESCE(preferred_categories3, '')      AS preferred_categories3,
		       COALESCE(preferred_unit_of_measures, '') AS preferred_unit_of_measures,
		       COALESCE(preferred_keywords, '')         AS preferred_keywords,
		       COALESCE(preferred_supply_type, '')      AS preferred_supply_type,
		       preferred_valid_from, preferred_valid_to
		FROM user_preferences`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("warehouse preferences: %w", err)
	}
	out := make([]core.StoredPreference, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.StoredPreference{
			UserID:      r.UserID,
			Categories1: r.Categories1,
			Categories2: r.Categories2,
			Categories3: r.Categories3,
			Units:       r.Units,
			Keywords:    r.Keywords,
			SupplyType:  r.SupplyType,
			ValidFrom:   r.ValidFrom,
			ValidTo:     r.ValidTo,
		})
	}
	return out, nil
}

func (w *GormWarehouse) Users(ctx context.Context) ([]core.User, error) {
	var rows []struct {
		ID        string `gorm:"column:id"`
		CompanyID string `gorm:"column:company_id"`
	}
	err := w.db.WithContext(ctx).Raw(`
		SELECT id, COALESCE(company_id, '') AS company_id
		FROM users`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("warehouse users: %w", err)
	}
	out := make([]core.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.User{ID: r.ID, CompanyID: r.CompanyID})
	}
	return out, nil
}

func (w *GormWarehouse) Companies(ctx context.Context) ([]core.Company, error) {
	var rows []struct {
		ID        string  `gorm:"column:id"`
		Name      string  `gorm:"column:name"`
		NACECode  string  `gorm:"column:nace_code"`
		Latitude  float64 `gorm:"column:latitude"`
		Longitude float64 `gorm:"column:longitude"`
	}
	err := w.db.WithContext(ctx).Raw(`
		SELECT c.id, c.name,
		       COALESCE(c.nace_code, '') AS nace_code,
		       COALESCE(l.latitude, 0)   AS latitude,
		       COALESCE(l.longitude, 0)  AS longitude
		FROM companies c
		LEFT JOIN locations l ON l.id = c.location_id`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("warehouse companies: %w", err)
	}
	out := make([]core.Company, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Company{
			ID:       r.ID,
			Name:     r.Name,
			NACECode: r.NACECode,
			Location: core.Location{Latitude: r.Latitude, Longitude: r.Longitude},
		})
	}
	return out, nil
}

// parseCategories 解析存储层的分类字面量。
// 兼容两种形式："[cat1, cat2]" 的列表字面量和普通逗号分隔串。
func parseCategories(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
