package storage

import (
	"encoding/json"
	"math"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ffprobe输出里我们只关心format.duration这一个字段
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration 用ffprobe探测视频时长，四舍五入到秒
func (s *minioStorage) ProbeDuration(localPath string) (uint64, error) {
	out, err := ffmpeg.Probe(localPath)
	if err != nil {
		return 0, err
	}
	var result probeResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, err
	}
	return uint64(math.Round(seconds)), nil
}
