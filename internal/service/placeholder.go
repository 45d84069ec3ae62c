package service

import "fmt"

// 占位名使用 MovieLens ID 上的算术散列，保证重复运行生成完全相同的名字
// 导演和演员各槽位使用不同乘数，避免同一部电影内撞名

// PlaceholderDirector 生成确定性的占位导演名
func PlaceholderDirector(mlID int) string {
	return fmt.Sprintf("Director_%03d", (mlID*17+42)%1000)
}

// PlaceholderActors 生成确定性的占位演员名列表
func PlaceholderActors(mlID, n int) []string {
	actors := make([]string, 0, n)
	base := mlID * 23
	for i := 0; i < n; i++ {
		actors = append(actors, fmt.Sprintf("Actor_%03d", (base+i*13)%1000))
	}
	return actors
}
