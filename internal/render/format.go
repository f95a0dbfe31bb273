package render

import (
	"fmt"
	"math"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gridle/gridle/internal/config"
)

// formatCache memoizes formatter output per column and raw value.
// Formatters are assumed pure, so a bounded LRU is safe; entries also
// age out so a long-lived grid does not pin stale display strings.
type formatCache struct {
	lru *expirable.LRU[string, string]
}

func newFormatCache(size int) *formatCache {
	return &formatCache{lru: expirable.NewLRU[string, string](size, nil, 0)}
}

// Format renders a cell value through the column's formatter, if any.
func (c *formatCache) Format(column string, f config.Formatter, value any) string {
	raw := displayString(value)
	if f == nil {
		return raw
	}
	key := column + "\x00" + raw
	if cached, ok := c.lru.Get(key); ok {
		return cached
	}
	out := f(value)
	c.lru.Add(key, out)
	return out
}

// displayString renders an unformatted value. JSON numbers arrive as
// float64; integral ones drop the decimal point.
func displayString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
