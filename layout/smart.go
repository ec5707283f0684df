package layout

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// 智能权重：按品类与价格区间微调元素的 weight/priority，之后仍交给同一个分配器。

// PriceRange 描述一个价格区间对价格元素权重的放大系数，Max<=0 表示无上限。
type PriceRange struct {
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	PriceBoost float64 `json:"priceBoost" yaml:"priceBoost"`
}

// SmartPolicy 是可选的预处理策略。
type SmartPolicy struct {
	// Category 为空时使用 Product.Category。
	Category    string       `json:"category" yaml:"category"`
	PriceRanges []PriceRange `json:"priceRanges" yaml:"priceRanges"`
	// LongNameRunes 超过该字符数的商品名会获得额外权重，默认 16。
	LongNameRunes int `json:"longNameRunes" yaml:"longNameRunes"`
}

// categoryEmphasis 按品类给各类元素乘以系数。
var categoryEmphasis = map[string]map[ElementType]float64{
	"food":        {ElementSpec: 1.3, ElementSellingPoint: 0.9},
	"electronics": {ElementSpec: 1.4, ElementBrand: 1.2, ElementSellingPoint: 1.1},
	"fashion":     {ElementBrand: 1.5, ElementSpec: 0.8},
	"beauty":      {ElementBrand: 1.3, ElementSellingPoint: 1.2},
	"promotion":   {ElementPrice: 1.5, ElementSellingPoint: 1.2, ElementSpec: 0.7},
}

// DefaultPriceRanges 是未配置价格区间时使用的区间表。
var DefaultPriceRanges = []PriceRange{
	{Min: 0, Max: 10, PriceBoost: 1.25},
	{Min: 10, Max: 1000, PriceBoost: 1.0},
	{Min: 1000, PriceBoost: 1.3},
}

const (
	defaultLongNameRunes = 16
	longNameBoost        = 1.2
)

var priceNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Apply 返回调整后的元素副本，顺序不变。
func (s *SmartPolicy) Apply(p Product, elems []ContentElement) []ContentElement {
	if s == nil {
		return elems
	}
	category := strings.ToLower(strings.TrimSpace(s.Category))
	if category == "" {
		category = strings.ToLower(strings.TrimSpace(p.Category))
	}
	emphasis := categoryEmphasis[category]
	ranges := s.PriceRanges
	if len(ranges) == 0 {
		ranges = DefaultPriceRanges
	}
	longName := s.LongNameRunes
	if longName <= 0 {
		longName = defaultLongNameRunes
	}
	price, hasPrice := ParsePrice(p.Price)

	return lo.Map(elems, func(el ContentElement, _ int) ContentElement {
		factor := 1.0
		if f, ok := emphasis[el.Kind.Type]; ok {
			factor *= f
		}
		switch el.Kind.Type {
		case ElementPrice:
			if hasPrice {
				factor *= priceBoost(ranges, price)
			}
		case ElementName:
			if utf8.RuneCountInString(el.Text) > longName {
				factor *= longNameBoost
			}
		}
		el.Weight *= factor
		// 权重被放大的元素在同一优先级段内前移，但不会越过上一段。
		if factor > 1 {
			el.Priority -= math.Min(0.009, (factor-1)*0.01)
		}
		return el
	})
}

func priceBoost(ranges []PriceRange, price float64) float64 {
	for _, r := range ranges {
		if price >= r.Min && (r.Max <= 0 || price < r.Max) {
			if r.PriceBoost > 0 {
				return r.PriceBoost
			}
			return 1
		}
	}
	return 1
}

// ParsePrice 从 "¥1,299.00"、"99元" 之类的文本中取出数值。
func ParsePrice(text string) (float64, bool) {
	m := priceNumber.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
