package utils

import "strconv"

func BuildEventCacheKey(id int64) string {
	return "events:v1:id=" + strconv.FormatInt(id, 10)
}

func BuildEventsListCacheKey(limit int) string {
	return "events:list:v1:limit=" + strconv.Itoa(limit)
}
