package apiclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// EncodeParams adds params to q. Arrays become repeated keys, objects are
// sent as JSON text and nil values are skipped.
func EncodeParams(q url.Values, params map[string]any) {
	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case []any:
			for _, item := range v {
				if item == nil {
					continue
				}
				q.Add(key, formatParam(item))
			}
		case []string:
			for _, item := range v {
				q.Add(key, item)
			}
		default:
			q.Set(key, formatParam(v))
		}
	}
}

func formatParam(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
