package preview

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FormatValue renders a cell for display. Whole numbers print without a
// decimal point, other numbers with exactly four decimals. Everything else
// uses its natural string form; nil renders empty.
func FormatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return formatFloat(n)
	case float32:
		return formatFloat(float64(n))
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return formatFloat(f)
		}
		return n.String()
	case bool:
		return strconv.FormatBool(n)
	case map[string]any, []any:
		b, err := json.Marshal(n)
		if err != nil {
			return fmt.Sprint(n)
		}
		return string(b)
	default:
		return fmt.Sprint(n)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}
