package service

import (
	"testing"

	"VidTube/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlaylistServiceForTest(env *testEnv) PlaylistService {
	return NewPlaylistService(env.playlistRepo, env.videoRepo, env.userRepo, env.resolver)
}

func TestCreatePlaylist(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")

	resp, err := svc.CreatePlaylist(viewerOf(owner), "学习清单", "慢慢看", true)
	require.NoError(t, err)
	assert.Equal(t, "学习清单", resp.Name)
	assert.True(t, resp.IsPublic)
	assert.Equal(t, int64(0), resp.VideosCount)

	_, err = svc.CreatePlaylist(viewerOf(owner), "", "", true)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

// 私有播放列表对外表现为不存在，而不是403
func TestGetPlaylist_PrivateHiddenFromStrangers(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")

	private, err := svc.CreatePlaylist(viewerOf(owner), "私藏", "", false)
	require.NoError(t, err)

	_, err = svc.GetPlaylist(viewerOf(stranger), private.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	detail, err := svc.GetPlaylist(viewerOf(owner), private.ID)
	require.NoError(t, err)
	assert.Equal(t, "私藏", detail.Name)
}

func TestListUserPlaylists_PrivateOnlyForSelf(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")

	_, err := svc.CreatePlaylist(viewerOf(owner), "公开", "", true)
	require.NoError(t, err)
	_, err = svc.CreatePlaylist(viewerOf(owner), "私藏", "", false)
	require.NoError(t, err)

	mine, err := svc.ListUserPlaylists(viewerOf(owner), owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	visible, err := svc.ListUserPlaylists(viewerOf(stranger), owner.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "公开", visible[0].Name)
}

// 收录顺序就是展示顺序
func TestAddVideo_KeepsInsertionOrder(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	first := env.addVideo(owner.ID, "first", true)
	second := env.addVideo(owner.ID, "second", true)

	playlist, err := svc.CreatePlaylist(viewerOf(owner), "清单", "", true)
	require.NoError(t, err)

	require.NoError(t, svc.AddVideo(viewerOf(owner), playlist.ID, second.ID))
	require.NoError(t, svc.AddVideo(viewerOf(owner), playlist.ID, first.ID))

	detail, err := svc.GetPlaylist(viewerOf(owner), playlist.ID)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, second.ID, detail.Videos[0].ID)
	assert.Equal(t, first.ID, detail.Videos[1].ID)
}

func TestAddVideo_DuplicateConflict(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	video := env.addVideo(owner.ID, "first", true)

	playlist, err := svc.CreatePlaylist(viewerOf(owner), "清单", "", true)
	require.NoError(t, err)

	require.NoError(t, svc.AddVideo(viewerOf(owner), playlist.ID, video.ID))
	err = svc.AddVideo(viewerOf(owner), playlist.ID, video.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAddVideo_OnlyOwnerAndVisibleVideos(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")
	published := env.addVideo(owner.ID, "published", true)
	draft := env.addVideo(stranger.ID, "draft", false)

	playlist, err := svc.CreatePlaylist(viewerOf(owner), "清单", "", true)
	require.NoError(t, err)

	// 别人不能往我的列表里塞视频
	err = svc.AddVideo(viewerOf(stranger), playlist.ID, published.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// 别人的未发布视频收录不了
	err = svc.AddVideo(viewerOf(owner), playlist.ID, draft.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// 自己的未发布视频可以先收进来
	myDraft := env.addVideo(owner.ID, "my draft", false)
	require.NoError(t, svc.AddVideo(viewerOf(owner), playlist.ID, myDraft.ID))
}

func TestRemoveVideo(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	video := env.addVideo(owner.ID, "first", true)

	playlist, err := svc.CreatePlaylist(viewerOf(owner), "清单", "", true)
	require.NoError(t, err)
	require.NoError(t, svc.AddVideo(viewerOf(owner), playlist.ID, video.ID))

	require.NoError(t, svc.RemoveVideo(viewerOf(owner), playlist.ID, video.ID))

	// 不在列表里的视频删一次就报404
	err = svc.RemoveVideo(viewerOf(owner), playlist.ID, video.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdatePlaylist_PartialFields(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")

	playlist, err := svc.CreatePlaylist(viewerOf(owner), "旧名字", "旧简介", true)
	require.NoError(t, err)

	newName := "新名字"
	turnPrivate := false
	resp, err := svc.UpdatePlaylist(viewerOf(owner), playlist.ID, &newName, nil, &turnPrivate)
	require.NoError(t, err)
	assert.Equal(t, "新名字", resp.Name)
	assert.Equal(t, "旧简介", resp.Description)
	assert.False(t, resp.IsPublic)
}

func TestDeletePlaylist(t *testing.T) {
	env := newTestEnv()
	svc := newPlaylistServiceForTest(env)
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")

	playlist, err := svc.CreatePlaylist(viewerOf(owner), "清单", "", true)
	require.NoError(t, err)

	err = svc.DeletePlaylist(viewerOf(stranger), playlist.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.DeletePlaylist(viewerOf(owner), playlist.ID))
	_, err = svc.GetPlaylist(viewerOf(owner), playlist.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
