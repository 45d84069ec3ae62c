package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// titleYearRe 匹配 MovieLens 标题格式 "Movie Title (YYYY)"
var titleYearRe = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)$`)

// NoGenresSentinel MovieLens 中表示"未记录类型"的占位值
const NoGenresSentinel = "(no genres listed)"

// ExtractTitleYear 从标题中提取片名和年份
// 匹配失败不算错误，返回原标题和 nil
func ExtractTitleYear(raw string) (string, *int) {
	trimmed := strings.TrimSpace(raw)

	m := titleYearRe.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed, nil
	}

	year, err := strconv.Atoi(m[2])
	if err != nil {
		// 正则保证是 4 位数字，理论上不会发生
		return trimmed, nil
	}

	return strings.TrimSpace(m[1]), &year
}

// ParseGenres 解析竖线分隔的类型串
// 空串和占位值返回空列表
func ParseGenres(genreString string) []string {
	if genreString == "" || genreString == NoGenresSentinel {
		return nil
	}

	var genres []string
	for _, g := range strings.Split(genreString, "|") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		genres = append(genres, g)
	}

	return genres
}
