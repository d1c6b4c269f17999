package util

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

// ServiceClock 定义“服务日”：固定时区下的自然日，格式 YYYY-MM-DD。
// 连续登录和每日任务的唯一性都以服务日为准。
type ServiceClock struct {
	loc *time.Location
}

// clocks 按时区名缓存，时区数据只加载一次
var clocks sync.Map

func NewServiceClock(timezone string) (*ServiceClock, error) {
	if c, ok := clocks.Load(timezone); ok {
		return c.(*ServiceClock), nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load service timezone %q: %w", timezone, err)
	}
	c, _ := clocks.LoadOrStore(timezone, &ServiceClock{loc: loc})
	return c.(*ServiceClock), nil
}

// DayOf 返回时间点所在的服务日
func (c *ServiceClock) DayOf(t time.Time) string {
	return t.In(c.loc).Format(DateFormat)
}

// PrevDay 返回前一个服务日
func PrevDay(day string) (string, error) {
	t, err := time.Parse(DateFormat, day)
	if err != nil {
		return "", fmt.Errorf("parse service day %q: %w", day, err)
	}
	return t.AddDate(0, 0, -1).Format(DateFormat), nil
}
