package service

import (
	"context"
	"testing"

	"VidTube/internal/apperror"
	"VidTube/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTweetServiceForTest(env *testEnv) TweetService {
	return NewTweetService(env.tweetRepo, env.userRepo, env.uow, env.resolver, env.store)
}

func TestCreateTweet(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")

	resp, err := svc.CreateTweet(context.Background(), viewerOf(owner), "开播了", []string{"/tmp/a.jpg", "/tmp/b.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "开播了", resp.TextContent)
	assert.Len(t, resp.Images, 2)
	assert.Len(t, env.store.uploaded, 2)

	_, err = svc.CreateTweet(context.Background(), viewerOf(owner), "", nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	tooMany := []string{"1", "2", "3", "4", "5"}
	_, err = svc.CreateTweet(context.Background(), viewerOf(owner), "图太多", tooMany)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestUpdateTweet_OwnerOnly(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")

	created, err := svc.CreateTweet(context.Background(), viewerOf(owner), "原文", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateTweet(context.Background(), viewerOf(owner), created.ID, UpdateTweetInput{Text: "改过的"})
	require.NoError(t, err)
	assert.Equal(t, "改过的", updated.TextContent)

	_, err = svc.UpdateTweet(context.Background(), viewerOf(stranger), created.ID, UpdateTweetInput{Text: "篡改"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

// 编辑动态时能留旧图、加新图，被弃用的旧图从对象存储回收
func TestUpdateTweet_ReplacesImages(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")

	created, err := svc.CreateTweet(context.Background(), viewerOf(owner), "两张图", []string{"/tmp/a.jpg", "/tmp/b.jpg"})
	require.NoError(t, err)
	require.Len(t, created.Images, 2)
	keep, drop := created.Images[0], created.Images[1]

	updated, err := svc.UpdateTweet(context.Background(), viewerOf(owner), created.ID, UpdateTweetInput{
		Text:          "换了一张",
		KeepImages:    []string{keep},
		NewImagePaths: []string{"/tmp/c.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, keep, updated.Images[0])
	assert.NotEqual(t, drop, updated.Images[1])
	assert.Contains(t, env.store.deleted, drop)

	// 不在动态里的URL混进keep_images不起作用
	updated, err = svc.UpdateTweet(context.Background(), viewerOf(owner), created.ID, UpdateTweetInput{
		Text:       "清空配图",
		KeepImages: []string{"https://cdn.test/别人的.jpg"},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
}

func TestUpdateTweet_TooManyImages(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")

	created, err := svc.CreateTweet(context.Background(), viewerOf(owner), "三张图",
		[]string{"/tmp/a.jpg", "/tmp/b.jpg", "/tmp/c.jpg"})
	require.NoError(t, err)

	_, err = svc.UpdateTweet(context.Background(), viewerOf(owner), created.ID, UpdateTweetInput{
		Text:          "塞不下了",
		KeepImages:    created.Images,
		NewImagePaths: []string{"/tmp/d.jpg", "/tmp/e.jpg"},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

// 删动态连评论带赞一起清掉，配图也回收
func TestDeleteTweet_Cascade(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")

	created, err := svc.CreateTweet(context.Background(), viewerOf(owner), "开播了", []string{"/tmp/a.jpg"})
	require.NoError(t, err)
	tweetID := created.ID

	comment := &model.Comment{OwnerID: fan.ID, Content: "来了", TweetID: &tweetID}
	require.NoError(t, env.commentRepo.Create(comment))
	commentID := comment.ID
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: owner.ID, CommentID: &commentID}))
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: fan.ID, TweetID: &tweetID}))

	require.NoError(t, svc.DeleteTweet(context.Background(), viewerOf(owner), tweetID))

	_, err = env.tweetRepo.FindByID(tweetID)
	assert.Error(t, err)
	_, err = env.commentRepo.FindByID(commentID)
	assert.Error(t, err)
	assert.Empty(t, env.likeRepo.likes)
	assert.Len(t, env.store.deleted, 1)
}

func TestListUserTweets(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")

	first, err := svc.CreateTweet(context.Background(), viewerOf(owner), "第一条", nil)
	require.NoError(t, err)
	second, err := svc.CreateTweet(context.Background(), viewerOf(owner), "第二条", nil)
	require.NoError(t, err)

	tweetID := first.ID
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: fan.ID, TweetID: &tweetID}))

	page, err := svc.ListUserTweets(viewerOf(fan), owner.ID, defaultParams())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	// 新发的在前
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
	assert.Equal(t, int64(1), page.Items[1].LikesCount)
	assert.True(t, page.Items[1].IsLiked)

	_, err = svc.ListUserTweets(viewerOf(fan), 9999, defaultParams())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetTweet(t *testing.T) {
	env := newTestEnv()
	svc := newTweetServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")

	created, err := svc.CreateTweet(context.Background(), viewerOf(owner), "新机入手", nil)
	require.NoError(t, err)
	tweetID := created.ID
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: fan.ID, TweetID: &tweetID}))

	resp, err := svc.GetTweet(viewerOf(fan), tweetID)
	require.NoError(t, err)
	assert.Equal(t, "新机入手", resp.TextContent)
	assert.Equal(t, owner.ID, resp.Owner.ID)
	assert.Equal(t, int64(1), resp.LikesCount)
	assert.True(t, resp.IsLiked)

	resp, err = svc.GetTweet(model.Anonymous, tweetID)
	require.NoError(t, err)
	assert.False(t, resp.IsLiked)

	_, err = svc.GetTweet(viewerOf(fan), 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
