package service

import (
	"testing"

	"VidTube/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardServiceForTest(env *testEnv) DashboardService {
	return NewDashboardService(env.videoRepo, env.likeRepo, env.subRepo, env.resolver)
}

// 统计口径：含未发布视频在内的播放量和数量、订阅数、所有视频收到的赞
func TestGetStats(t *testing.T) {
	env := newTestEnv()
	svc := newDashboardServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")

	first := env.addVideo(owner.ID, "first", true)
	draft := env.addVideo(owner.ID, "draft", false)
	require.NoError(t, env.videoRepo.IncrementViews(first.ID))
	require.NoError(t, env.videoRepo.IncrementViews(first.ID))

	firstID := first.ID
	draftID := draft.ID
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: fan.ID, VideoID: &firstID}))
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: fan.ID, VideoID: &draftID}))
	require.NoError(t, env.subRepo.Create(&model.Subscription{SubscriberID: fan.ID, ChannelID: owner.ID}))

	stats, err := svc.GetStats(viewerOf(owner))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(2), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalSubscribers)
	assert.Equal(t, int64(2), stats.TotalLikes)
}

// 后台列表是创作者自己的全部视频，草稿也在
func TestGetChannelVideos_IncludesUnpublished(t *testing.T) {
	env := newTestEnv()
	svc := newDashboardServiceForTest(env)
	owner := env.addUser("owner")
	other := env.addUser("other")

	env.addVideo(owner.ID, "published", true)
	env.addVideo(owner.ID, "draft", false)
	env.addVideo(other.ID, "not mine", true)

	videos, err := svc.GetChannelVideos(viewerOf(owner))
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}
