package rank

import (
	"context"
	"math"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/pipeline"
	"github.com/ecoloop/matchkit/pkg/utils"
)

// EarthRadiusKm 是 haversine 距离使用的地球近似半径。
const EarthRadiusKm = 6371.0

// GeoBlend 是排序节点：把词法相似度与地理距离相似度按固定权重线性混合。
//
//	score = ContentWeight·lexical + DistanceWeight·(1 − clamp(d/maxRadius, 0, 1))
//
// 请求未携带锚点或半径时本节点为 no-op。坐标非法（非有限值）的产品
// 距离相似度按 0 处理，降级而不是让整条请求失败。
type GeoBlend struct {
	// ContentWeight 词法相似度权重，默认 0.7
	ContentWeight float64
	// DistanceWeight 距离相似度权重，默认 0.3
	DistanceWeight float64
}

func (n *GeoBlend) Name() string        { return "rank.geo" }
func (n *GeoBlend) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *GeoBlend) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || rctx.Query == nil || !rctx.Query.UseGeo() {
		return items, nil
	}

	cw := n.ContentWeight
	dw := n.DistanceWeight
	if cw <= 0 && dw <= 0 {
		cw, dw = 0.7, 0.3
	}

	anchor := rctx.Query.Anchor
	radius := rctx.Query.MaxRadiusKm
	for _, it := range items {
		lat, okLat := it.MetaFloat("latitude")
		lon, okLon := it.MetaFloat("longitude")

		d := math.Inf(1)
		if okLat && okLon {
			d = Haversine(anchor.Latitude, anchor.Longitude, lat, lon)
		}

		sim := 0.0
		if !math.IsInf(d, 1) && !math.IsNaN(d) {
			ratio := d / radius
			if ratio < 0 {
				ratio = 0
			}
			if ratio > 1 {
				ratio = 1
			}
			sim = 1 - ratio
		}

		it.Score = cw*it.Score + dw*sim
		it.Meta["distance_km"] = d
		it.PutLabel("geo_blend", utils.Label{Value: "on", Source: "rank"})
	}
	return items, nil
}

// Haversine 计算两点间的大圆距离（公里）。
// 任一坐标非有限值时返回 +Inf，调用方据此把距离相似度降级为 0。
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	for _, v := range [...]float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1)
		}
	}
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dlat := rad(lat2 - lat1)
	dlon := rad(lon2 - lon1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}
