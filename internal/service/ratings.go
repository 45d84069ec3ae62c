package service

import (
	"encoding/csv"
	"io"
	"log"
	"math"
	"os"
	"strconv"
)

// RatingStat 单部电影的评分聚合结果
type RatingStat struct {
	Avg   float64 // 算术平均，保留两位小数
	Count int     // 评分条数
}

// AggregateRatings 流式读取评分日志，按电影聚合平均分和评分数
// 没有评分事件的电影不出现在结果里
// 评分文件缺失不致命，降级为空映射并告警
func AggregateRatings(path string) map[int]RatingStat {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[Ratings] 评分文件 %s 不可用，跳过评分聚合: %v", path, err)
		return map[int]RatingStat{}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Printf("[Ratings] 读取评分文件表头失败: %v", err)
		return map[int]RatingStat{}
	}

	movieCol, ratingCol := findColumn(header, "movieId"), findColumn(header, "rating")
	if movieCol < 0 || ratingCol < 0 {
		log.Printf("[Ratings] 评分文件缺少 movieId/rating 列，跳过评分聚合")
		return map[int]RatingStat{}
	}

	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[int]*acc)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 坏行直接跳过
			continue
		}
		if len(record) <= movieCol || len(record) <= ratingCol {
			continue
		}

		movieID, err := strconv.Atoi(record[movieCol])
		if err != nil {
			continue
		}
		rating, err := strconv.ParseFloat(record[ratingCol], 64)
		if err != nil {
			continue
		}

		a := sums[movieID]
		if a == nil {
			a = &acc{}
			sums[movieID] = a
		}
		a.sum += rating
		a.count++
	}

	stats := make(map[int]RatingStat, len(sums))
	for movieID, a := range sums {
		stats[movieID] = RatingStat{
			Avg:   math.Round(a.sum/float64(a.count)*100) / 100,
			Count: a.count,
		}
	}

	log.Printf("[Ratings] 聚合了 %d 部电影的评分", len(stats))
	return stats
}

// findColumn 按列名定位下标，找不到返回 -1
func findColumn(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
