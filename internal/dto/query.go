package dto

import (
	"strings"
	"time"

	res "github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

const dateLayout = "2006-01-02"

// ParseTimeQuery 解析查询参数中的时间，支持 RFC3339 与 2006-01-02
// endOfDay 为 true 时，纯日期表示当天结束（含当天）
func ParseTimeQuery(field, value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, res.NewBusinessError(
			res.WithErrorCode(res.InvalidParameter),
			res.WithErrorMessage("参数 '"+field+"' 不是有效的日期，支持 RFC3339 或 YYYY-MM-DD"),
		)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ParseTimeRange 解析 from/to，from 晚于 to 时返回参数错误
func ParseTimeRange(from, to string) (*time.Time, *time.Time, error) {
	fromTime, err := ParseTimeQuery("from", from, false)
	if err != nil {
		return nil, nil, err
	}
	toTime, err := ParseTimeQuery("to", to, true)
	if err != nil {
		return nil, nil, err
	}
	if fromTime != nil && toTime != nil && fromTime.After(*toTime) {
		return nil, nil, res.ValidationError("开始时间不能晚于结束时间")
	}
	return fromTime, toTime, nil
}
