package service

import (
	"testing"

	"VidTube/internal/apperror"
	"VidTube/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentServiceForTest(env *testEnv) CommentService {
	return NewCommentService(env.commentRepo, env.videoRepo, env.tweetRepo, env.uow, env.resolver)
}

func TestAddVideoComment(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")
	video := env.addVideo(owner.ID, "first", true)

	resp, err := svc.AddVideoComment(viewerOf(fan), video.ID, "好活")
	require.NoError(t, err)
	assert.Equal(t, "好活", resp.Content)
	assert.Equal(t, fan.ID, resp.Owner.ID)
	assert.True(t, resp.IsCommentOwner)
	assert.False(t, resp.IsEdited)

	_, err = svc.AddVideoComment(viewerOf(fan), video.ID, "")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = svc.AddVideoComment(viewerOf(fan), 9999, "好活")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// 未发布视频的评论区只对主人开放
func TestAddVideoComment_UnpublishedHidden(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")
	draft := env.addVideo(owner.ID, "draft", false)

	_, err := svc.AddVideoComment(viewerOf(stranger), draft.ID, "先赞后看")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.AddVideoComment(viewerOf(owner), draft.ID, "自留备注")
	require.NoError(t, err)
}

func TestAddTweetComment(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")
	tweet := &model.Tweet{OwnerID: owner.ID, TextContent: "开播了"}
	require.NoError(t, env.tweetRepo.Create(tweet))

	resp, err := svc.AddTweetComment(viewerOf(fan), tweet.ID, "来了来了")
	require.NoError(t, err)
	assert.Equal(t, "来了来了", resp.Content)
}

// 对回复的回复被拍平：挂到同一个线程根下，ReplyingTo指向被回复的人
func TestAddReply_FlattensToThreadRoot(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	alice := env.addUser("alice")
	bob := env.addUser("bob")
	video := env.addVideo(owner.ID, "first", true)

	root, err := svc.AddVideoComment(viewerOf(alice), video.ID, "沙发")
	require.NoError(t, err)

	firstReply, err := svc.AddReply(viewerOf(bob), root.ID, "板凳")
	require.NoError(t, err)
	require.NotNil(t, firstReply.ReplyingTo)
	assert.Equal(t, alice.ID, firstReply.ReplyingTo.ID)

	secondReply, err := svc.AddReply(viewerOf(alice), firstReply.ID, "地板")
	require.NoError(t, err)
	require.NotNil(t, secondReply.ReplyingTo)
	assert.Equal(t, bob.ID, secondReply.ReplyingTo.ID)

	// 两条回复都挂在root名下
	page, err := svc.ListReplies(viewerOf(alice), root.ID, defaultParams())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	// 回复区固定按时间正序
	assert.Equal(t, firstReply.ID, page.Items[0].ID)
	assert.Equal(t, secondReply.ID, page.Items[1].ID)

	// 顶层列表只有root一条，带着回复数
	comments, err := svc.ListVideoComments(viewerOf(alice), video.ID, defaultParams())
	require.NoError(t, err)
	require.Len(t, comments.Items, 1)
	assert.Equal(t, int64(2), comments.Items[0].RepliesCount)
}

func TestUpdateComment(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")
	video := env.addVideo(owner.ID, "first", true)

	comment, err := svc.AddVideoComment(viewerOf(fan), video.ID, "好活")
	require.NoError(t, err)

	updated, err := svc.UpdateComment(viewerOf(fan), comment.ID, "好活（修改过）")
	require.NoError(t, err)
	assert.Equal(t, "好活（修改过）", updated.Content)
	assert.True(t, updated.IsEdited)

	// 视频主人也不能替别人改评论
	_, err = svc.UpdateComment(viewerOf(owner), comment.ID, "篡改")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

// 删顶层评论连带清掉它的回复和这些回复收到的赞
func TestDeleteComment_CascadesReplies(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	alice := env.addUser("alice")
	bob := env.addUser("bob")
	video := env.addVideo(owner.ID, "first", true)

	root, err := svc.AddVideoComment(viewerOf(alice), video.ID, "沙发")
	require.NoError(t, err)
	reply, err := svc.AddReply(viewerOf(bob), root.ID, "板凳")
	require.NoError(t, err)

	replyID := reply.ID
	require.NoError(t, env.likeRepo.Create(&model.Like{LikedByID: alice.ID, CommentID: &replyID}))

	require.NoError(t, svc.DeleteComment(viewerOf(alice), root.ID))

	_, err = env.commentRepo.FindByID(root.ID)
	assert.Error(t, err)
	_, err = env.commentRepo.FindByID(reply.ID)
	assert.Error(t, err)
	assert.Empty(t, env.likeRepo.likes)
}

func TestDeleteComment_Permissions(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")
	stranger := env.addUser("stranger")
	video := env.addVideo(owner.ID, "first", true)

	comment, err := svc.AddVideoComment(viewerOf(fan), video.ID, "好活")
	require.NoError(t, err)

	// 路人删不了
	err = svc.DeleteComment(viewerOf(stranger), comment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// 视频主人可以清理自己视频下的评论
	require.NoError(t, svc.DeleteComment(viewerOf(owner), comment.ID))
	_, err = env.commentRepo.FindByID(comment.ID)
	assert.Error(t, err)
}

func TestListVideoComments_Relations(t *testing.T) {
	env := newTestEnv()
	svc := newCommentServiceForTest(env)
	owner := env.addUser("owner")
	fan := env.addUser("fan")
	video := env.addVideo(owner.ID, "first", true)

	fromOwner, err := svc.AddVideoComment(viewerOf(owner), video.ID, "置顶")
	require.NoError(t, err)
	_, err = svc.AddVideoComment(viewerOf(fan), video.ID, "好活")
	require.NoError(t, err)

	// fan视角：不是视频主人，只有自己那条带IsCommentOwner
	page, err := svc.ListVideoComments(viewerOf(fan), video.ID, defaultParams())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.False(t, item.IsTargetOwner)
		assert.Equal(t, item.ID != fromOwner.ID, item.IsCommentOwner)
	}

	// 视频主人视角：每一条都带IsTargetOwner，前端据此显示删除按钮
	page, err = svc.ListVideoComments(viewerOf(owner), video.ID, defaultParams())
	require.NoError(t, err)
	for _, item := range page.Items {
		assert.True(t, item.IsTargetOwner)
	}
}
