package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	// 测试里日志全部丢弃，JWT密钥给个固定值
	logger.Log = logrus.New()
	logger.Log.SetOutput(io.Discard)
	os.Setenv(EnvAccessSecret, "test-access-secret")
	os.Setenv(EnvRefreshSecret, "test-refresh-secret")
	os.Exit(m.Run())
}

// 唯一索引冲突，和真MySQL同一个错误号
func duplicateKeyErr() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

// 手写的内存版Repository，测试service逻辑时不需要真数据库。
// 查不到返回gorm.ErrRecordNotFound；点赞/订阅/播放列表条目
// 模拟唯一索引，重复插入返回MySQL 1062，和真库行为一致。

// ---------- users ----------

type mockUserRepo struct {
	users   map[uint64]*model.User
	socials map[uint64]*model.Social
	nextID  uint64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[uint64]*model.User),
		socials: make(map[uint64]*model.Social),
	}
}

func (m *mockUserRepo) Create(user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) FindByID(userID uint64) (*model.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByUsernameOrEmail(username, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Save(user *model.User) error {
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) UpdateRefreshToken(userID uint64, token string) error {
	user, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshToken = token
	return nil
}

func (m *mockUserRepo) SearchChannels(keyword string, limit int) ([]model.User, error) {
	var result []model.User
	for _, user := range m.users {
		if strings.Contains(user.Username, keyword) || strings.Contains(user.FullName, keyword) {
			result = append(result, *user)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockUserRepo) UpsertSocial(social *model.Social) error {
	stored := *social
	m.socials[social.UserID] = &stored
	return nil
}

func (m *mockUserRepo) FindSocial(userID uint64) (*model.Social, error) {
	social, ok := m.socials[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *social
	return &result, nil
}

// ---------- videos ----------

type mockVideoRepo struct {
	videos map[uint64]*model.Video
	users  *mockUserRepo
	nextID uint64
}

func newMockVideoRepo(users *mockUserRepo) *mockVideoRepo {
	return &mockVideoRepo{videos: make(map[uint64]*model.Video), users: users}
}

func (m *mockVideoRepo) withOwner(video model.Video) model.Video {
	if m.users != nil {
		if owner, ok := m.users.users[video.OwnerID]; ok {
			video.Owner = *owner
		}
	}
	return video
}

func (m *mockVideoRepo) Create(video *model.Video) error {
	m.nextID++
	video.ID = m.nextID
	stored := *video
	m.videos[video.ID] = &stored
	return nil
}

func (m *mockVideoRepo) FindByID(videoID uint64) (*model.Video, error) {
	video, ok := m.videos[videoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := m.withOwner(*video)
	return &result, nil
}

func (m *mockVideoRepo) Save(video *model.Video) error {
	if _, ok := m.videos[video.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *video
	m.videos[video.ID] = &stored
	return nil
}

func (m *mockVideoRepo) Delete(videoID uint64) error {
	delete(m.videos, videoID)
	return nil
}

func (m *mockVideoRepo) List(filter repository.VideoListFilter, p pagination.Params) ([]model.Video, int64, error) {
	var matched []model.Video
	for _, video := range m.videos {
		if filter.PublishedOnly && !video.IsPublished {
			continue
		}
		if filter.OwnerID != 0 && video.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(video.Title, filter.Search) &&
			!strings.Contains(video.Description, filter.Search) {
			continue
		}
		matched = append(matched, m.withOwner(*video))
	}
	// 内存mock只支持默认的created_at排序，用ID代替时间序
	sort.Slice(matched, func(i, j int) bool {
		if p.SortType == pagination.SortAsc {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	offset := p.Offset()
	if offset >= len(matched) {
		return []model.Video{}, total, nil
	}
	matched = matched[offset:]
	if len(matched) > p.Limit {
		matched = matched[:p.Limit]
	}
	return matched, total, nil
}

func (m *mockVideoRepo) FindByIDs(videoIDs []uint64) ([]model.Video, error) {
	var result []model.Video
	for _, id := range videoIDs {
		if video, ok := m.videos[id]; ok {
			result = append(result, m.withOwner(*video))
		}
	}
	return result, nil
}

func (m *mockVideoRepo) ListByOwner(ownerID uint64) ([]model.Video, error) {
	var result []model.Video
	for _, video := range m.videos {
		if video.OwnerID == ownerID {
			result = append(result, m.withOwner(*video))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockVideoRepo) OwnerStats(ownerID uint64) (int64, int64, error) {
	var views, count int64
	for _, video := range m.videos {
		if video.OwnerID == ownerID {
			views += int64(video.Views)
			count++
		}
	}
	return views, count, nil
}

func (m *mockVideoRepo) IncrementViews(videoID uint64) error {
	video, ok := m.videos[videoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	video.Views++
	return nil
}

func (m *mockVideoRepo) GetVideoCache(videoID uint64) (*model.Video, error) { return nil, nil }
func (m *mockVideoRepo) SetVideoCache(video *model.Video) error             { return nil }
func (m *mockVideoRepo) DropVideoCache(videoID uint64) error                { return nil }

func (m *mockVideoRepo) WithTx(tx *gorm.DB) repository.VideoRepository { return m }

// ---------- comments ----------

type mockCommentRepo struct {
	comments map[uint64]*model.Comment
	users    *mockUserRepo
	nextID   uint64
}

func newMockCommentRepo(users *mockUserRepo) *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[uint64]*model.Comment), users: users}
}

func (m *mockCommentRepo) withOwner(comment model.Comment) model.Comment {
	if m.users != nil {
		if owner, ok := m.users.users[comment.OwnerID]; ok {
			comment.Owner = *owner
		}
	}
	if comment.ReplyingToID != nil {
		if target, ok := m.comments[*comment.ReplyingToID]; ok {
			replied := *target
			if owner, ok := m.users.users[replied.OwnerID]; ok {
				replied.Owner = *owner
			}
			comment.ReplyingTo = &replied
		}
	}
	return comment
}

func (m *mockCommentRepo) Create(comment *model.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockCommentRepo) FindByID(commentID uint64) (*model.Comment, error) {
	comment, ok := m.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := m.withOwner(*comment)
	return &result, nil
}

func (m *mockCommentRepo) Save(comment *model.Comment) error {
	if _, ok := m.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockCommentRepo) Delete(commentID uint64) error {
	delete(m.comments, commentID)
	return nil
}

func (m *mockCommentRepo) DeleteByIDs(commentIDs []uint64) error {
	for _, id := range commentIDs {
		delete(m.comments, id)
	}
	return nil
}

func (m *mockCommentRepo) page(matched []model.Comment, asc bool, p pagination.Params) ([]model.Comment, int64) {
	sort.Slice(matched, func(i, j int) bool {
		if asc {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	offset := p.Offset()
	if offset >= len(matched) {
		return []model.Comment{}, total
	}
	matched = matched[offset:]
	if len(matched) > p.Limit {
		matched = matched[:p.Limit]
	}
	return matched, total
}

func (m *mockCommentRepo) ListForVideo(videoID uint64, p pagination.Params) ([]model.Comment, int64, error) {
	var matched []model.Comment
	for _, c := range m.comments {
		if c.VideoID != nil && *c.VideoID == videoID && c.ParentID == nil {
			matched = append(matched, m.withOwner(*c))
		}
	}
	items, total := m.page(matched, p.SortType == pagination.SortAsc, p)
	return items, total, nil
}

func (m *mockCommentRepo) ListForTweet(tweetID uint64, p pagination.Params) ([]model.Comment, int64, error) {
	var matched []model.Comment
	for _, c := range m.comments {
		if c.TweetID != nil && *c.TweetID == tweetID && c.ParentID == nil {
			matched = append(matched, m.withOwner(*c))
		}
	}
	items, total := m.page(matched, p.SortType == pagination.SortAsc, p)
	return items, total, nil
}

func (m *mockCommentRepo) ListReplies(parentID uint64, p pagination.Params) ([]model.Comment, int64, error) {
	var matched []model.Comment
	for _, c := range m.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			matched = append(matched, m.withOwner(*c))
		}
	}
	// 回复固定升序
	items, total := m.page(matched, true, p)
	return items, total, nil
}

func (m *mockCommentRepo) ReplyIDs(parentID uint64) ([]uint64, error) {
	var ids []uint64
	for _, c := range m.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (m *mockCommentRepo) IDsForVideo(videoID uint64) ([]uint64, error) {
	var ids []uint64
	for _, c := range m.comments {
		if c.VideoID != nil && *c.VideoID == videoID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (m *mockCommentRepo) IDsForTweet(tweetID uint64) ([]uint64, error) {
	var ids []uint64
	for _, c := range m.comments {
		if c.TweetID != nil && *c.TweetID == tweetID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (m *mockCommentRepo) CountReplies(commentIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	for _, id := range commentIDs {
		for _, c := range m.comments {
			if c.ParentID != nil && *c.ParentID == id {
				result[id]++
			}
		}
	}
	return result, nil
}

func (m *mockCommentRepo) CountForTweets(tweetIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	for _, id := range tweetIDs {
		for _, c := range m.comments {
			if c.TweetID != nil && *c.TweetID == id {
				result[id]++
			}
		}
	}
	return result, nil
}

func (m *mockCommentRepo) WithTx(tx *gorm.DB) repository.CommentRepository { return m }

// ---------- likes ----------

type mockLikeRepo struct {
	likes  map[uint64]*model.Like
	nextID uint64
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{likes: make(map[uint64]*model.Like)}
}

func (m *mockLikeRepo) Create(like *model.Like) error {
	for _, existing := range m.likes {
		if existing.LikedByID != like.LikedByID {
			continue
		}
		sameVideo := like.VideoID != nil && existing.VideoID != nil && *existing.VideoID == *like.VideoID
		sameComment := like.CommentID != nil && existing.CommentID != nil && *existing.CommentID == *like.CommentID
		sameTweet := like.TweetID != nil && existing.TweetID != nil && *existing.TweetID == *like.TweetID
		if sameVideo || sameComment || sameTweet {
			return duplicateKeyErr()
		}
	}
	m.nextID++
	like.ID = m.nextID
	stored := *like
	m.likes[like.ID] = &stored
	return nil
}

func (m *mockLikeRepo) DeleteByID(likeID uint64) error {
	delete(m.likes, likeID)
	return nil
}

func matchTarget(field *uint64, targetID uint64) bool {
	return field != nil && *field == targetID
}

func (m *mockLikeRepo) find(userID uint64, match func(*model.Like) bool) (*model.Like, error) {
	for _, like := range m.likes {
		if like.LikedByID == userID && match(like) {
			result := *like
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLikeRepo) FindVideoLike(userID, videoID uint64) (*model.Like, error) {
	return m.find(userID, func(l *model.Like) bool { return matchTarget(l.VideoID, videoID) })
}

func (m *mockLikeRepo) FindCommentLike(userID, commentID uint64) (*model.Like, error) {
	return m.find(userID, func(l *model.Like) bool { return matchTarget(l.CommentID, commentID) })
}

func (m *mockLikeRepo) FindTweetLike(userID, tweetID uint64) (*model.Like, error) {
	return m.find(userID, func(l *model.Like) bool { return matchTarget(l.TweetID, tweetID) })
}

func (m *mockLikeRepo) count(ids []uint64, field func(*model.Like) *uint64) map[uint64]int64 {
	result := make(map[uint64]int64)
	for _, id := range ids {
		for _, like := range m.likes {
			if matchTarget(field(like), id) {
				result[id]++
			}
		}
	}
	return result
}

func (m *mockLikeRepo) CountForVideos(videoIDs []uint64) (map[uint64]int64, error) {
	return m.count(videoIDs, func(l *model.Like) *uint64 { return l.VideoID }), nil
}

func (m *mockLikeRepo) CountForComments(commentIDs []uint64) (map[uint64]int64, error) {
	return m.count(commentIDs, func(l *model.Like) *uint64 { return l.CommentID }), nil
}

func (m *mockLikeRepo) CountForTweets(tweetIDs []uint64) (map[uint64]int64, error) {
	return m.count(tweetIDs, func(l *model.Like) *uint64 { return l.TweetID }), nil
}

func (m *mockLikeRepo) likedSet(userID uint64, ids []uint64, field func(*model.Like) *uint64) map[uint64]bool {
	result := make(map[uint64]bool)
	for _, id := range ids {
		for _, like := range m.likes {
			if like.LikedByID == userID && matchTarget(field(like), id) {
				result[id] = true
			}
		}
	}
	return result
}

func (m *mockLikeRepo) LikedVideoSet(userID uint64, videoIDs []uint64) (map[uint64]bool, error) {
	return m.likedSet(userID, videoIDs, func(l *model.Like) *uint64 { return l.VideoID }), nil
}

func (m *mockLikeRepo) LikedCommentSet(userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	return m.likedSet(userID, commentIDs, func(l *model.Like) *uint64 { return l.CommentID }), nil
}

func (m *mockLikeRepo) LikedTweetSet(userID uint64, tweetIDs []uint64) (map[uint64]bool, error) {
	return m.likedSet(userID, tweetIDs, func(l *model.Like) *uint64 { return l.TweetID }), nil
}

func (m *mockLikeRepo) ListLikedVideoIDs(userID uint64, p pagination.Params) ([]uint64, int64, error) {
	type likedVideo struct {
		likeID  uint64
		videoID uint64
	}
	var matched []likedVideo
	for _, like := range m.likes {
		if like.LikedByID == userID && like.VideoID != nil {
			matched = append(matched, likedVideo{likeID: like.ID, videoID: *like.VideoID})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].likeID > matched[j].likeID })
	total := int64(len(matched))
	offset := p.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > p.Limit {
		matched = matched[:p.Limit]
	}
	ids := make([]uint64, 0, len(matched))
	for _, lv := range matched {
		ids = append(ids, lv.videoID)
	}
	return ids, total, nil
}

func (m *mockLikeRepo) DeleteForVideo(videoID uint64) error {
	for id, like := range m.likes {
		if matchTarget(like.VideoID, videoID) {
			delete(m.likes, id)
		}
	}
	return nil
}

func (m *mockLikeRepo) DeleteForComments(commentIDs []uint64) error {
	for _, commentID := range commentIDs {
		for id, like := range m.likes {
			if matchTarget(like.CommentID, commentID) {
				delete(m.likes, id)
			}
		}
	}
	return nil
}

func (m *mockLikeRepo) DeleteForTweet(tweetID uint64) error {
	for id, like := range m.likes {
		if matchTarget(like.TweetID, tweetID) {
			delete(m.likes, id)
		}
	}
	return nil
}

func (m *mockLikeRepo) WithTx(tx *gorm.DB) repository.LikeRepository { return m }

// ---------- subscriptions ----------

type mockSubscriptionRepo struct {
	subs   map[uint64]*model.Subscription
	users  *mockUserRepo
	nextID uint64
}

func newMockSubscriptionRepo(users *mockUserRepo) *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[uint64]*model.Subscription), users: users}
}

func (m *mockSubscriptionRepo) Create(subscription *model.Subscription) error {
	for _, existing := range m.subs {
		if existing.SubscriberID == subscription.SubscriberID && existing.ChannelID == subscription.ChannelID {
			return duplicateKeyErr()
		}
	}
	m.nextID++
	subscription.ID = m.nextID
	stored := *subscription
	m.subs[subscription.ID] = &stored
	return nil
}

func (m *mockSubscriptionRepo) DeleteByID(subscriptionID uint64) error {
	delete(m.subs, subscriptionID)
	return nil
}

func (m *mockSubscriptionRepo) Find(subscriberID, channelID uint64) (*model.Subscription, error) {
	for _, sub := range m.subs {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			result := *sub
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubscriptionRepo) CountForChannels(channelIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	for _, id := range channelIDs {
		for _, sub := range m.subs {
			if sub.ChannelID == id {
				result[id]++
			}
		}
	}
	return result, nil
}

func (m *mockSubscriptionRepo) SubscribedSet(userID uint64, channelIDs []uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool)
	for _, id := range channelIDs {
		for _, sub := range m.subs {
			if sub.SubscriberID == userID && sub.ChannelID == id {
				result[id] = true
			}
		}
	}
	return result, nil
}

func (m *mockSubscriptionRepo) CountSubscribedTo(subscriberID uint64) (int64, error) {
	var count int64
	for _, sub := range m.subs {
		if sub.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

func (m *mockSubscriptionRepo) listUsers(pick func(*model.Subscription) (bool, uint64), p pagination.Params) ([]model.User, int64, error) {
	var userIDs []uint64
	for _, sub := range m.subs {
		if ok, userID := pick(sub); ok {
			userIDs = append(userIDs, userID)
		}
	}
	total := int64(len(userIDs))
	var result []model.User
	for _, id := range userIDs {
		if user, ok := m.users.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, total, nil
}

func (m *mockSubscriptionRepo) ListSubscribers(channelID uint64, p pagination.Params) ([]model.User, int64, error) {
	return m.listUsers(func(s *model.Subscription) (bool, uint64) {
		return s.ChannelID == channelID, s.SubscriberID
	}, p)
}

func (m *mockSubscriptionRepo) ListSubscribed(subscriberID uint64, p pagination.Params) ([]model.User, int64, error) {
	return m.listUsers(func(s *model.Subscription) (bool, uint64) {
		return s.SubscriberID == subscriberID, s.ChannelID
	}, p)
}

// ---------- tweets ----------

type mockTweetRepo struct {
	tweets map[uint64]*model.Tweet
	users  *mockUserRepo
	nextID uint64
}

func newMockTweetRepo(users *mockUserRepo) *mockTweetRepo {
	return &mockTweetRepo{tweets: make(map[uint64]*model.Tweet), users: users}
}

func (m *mockTweetRepo) withOwner(tweet model.Tweet) model.Tweet {
	if owner, ok := m.users.users[tweet.OwnerID]; ok {
		tweet.Owner = *owner
	}
	return tweet
}

func (m *mockTweetRepo) Create(tweet *model.Tweet) error {
	m.nextID++
	tweet.ID = m.nextID
	stored := *tweet
	m.tweets[tweet.ID] = &stored
	return nil
}

func (m *mockTweetRepo) FindByID(tweetID uint64) (*model.Tweet, error) {
	tweet, ok := m.tweets[tweetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := m.withOwner(*tweet)
	return &result, nil
}

func (m *mockTweetRepo) Save(tweet *model.Tweet) error {
	if _, ok := m.tweets[tweet.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *tweet
	m.tweets[tweet.ID] = &stored
	return nil
}

func (m *mockTweetRepo) Delete(tweetID uint64) error {
	delete(m.tweets, tweetID)
	return nil
}

func (m *mockTweetRepo) ListByOwner(ownerID uint64, p pagination.Params) ([]model.Tweet, int64, error) {
	var matched []model.Tweet
	for _, tweet := range m.tweets {
		if tweet.OwnerID == ownerID {
			matched = append(matched, m.withOwner(*tweet))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	offset := p.Offset()
	if offset >= len(matched) {
		return []model.Tweet{}, total, nil
	}
	matched = matched[offset:]
	if len(matched) > p.Limit {
		matched = matched[:p.Limit]
	}
	return matched, total, nil
}

func (m *mockTweetRepo) WithTx(tx *gorm.DB) repository.TweetRepository { return m }

// ---------- playlists ----------

type mockPlaylistRepo struct {
	playlists map[uint64]*model.Playlist
	entries   map[uint64]*model.PlaylistVideo
	videos    *mockVideoRepo
	nextID    uint64
	nextEntry uint64
}

func newMockPlaylistRepo(videos *mockVideoRepo) *mockPlaylistRepo {
	return &mockPlaylistRepo{
		playlists: make(map[uint64]*model.Playlist),
		entries:   make(map[uint64]*model.PlaylistVideo),
		videos:    videos,
	}
}

func (m *mockPlaylistRepo) Create(playlist *model.Playlist) error {
	m.nextID++
	playlist.ID = m.nextID
	stored := *playlist
	m.playlists[playlist.ID] = &stored
	return nil
}

func (m *mockPlaylistRepo) FindByID(playlistID uint64) (*model.Playlist, error) {
	playlist, ok := m.playlists[playlistID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *playlist
	return &result, nil
}

func (m *mockPlaylistRepo) Save(playlist *model.Playlist) error {
	if _, ok := m.playlists[playlist.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *playlist
	m.playlists[playlist.ID] = &stored
	return nil
}

func (m *mockPlaylistRepo) Delete(playlistID uint64) error {
	for id, entry := range m.entries {
		if entry.PlaylistID == playlistID {
			delete(m.entries, id)
		}
	}
	delete(m.playlists, playlistID)
	return nil
}

func (m *mockPlaylistRepo) ListByOwner(ownerID uint64, includePrivate bool) ([]model.Playlist, error) {
	var result []model.Playlist
	for _, playlist := range m.playlists {
		if playlist.OwnerID != ownerID {
			continue
		}
		if !includePrivate && !playlist.IsPublic {
			continue
		}
		result = append(result, *playlist)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockPlaylistRepo) HasVideo(playlistID, videoID uint64) (bool, error) {
	for _, entry := range m.entries {
		if entry.PlaylistID == playlistID && entry.VideoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPlaylistRepo) AddVideo(entry *model.PlaylistVideo) error {
	for _, existing := range m.entries {
		if existing.PlaylistID == entry.PlaylistID && existing.VideoID == entry.VideoID {
			return duplicateKeyErr()
		}
	}
	m.nextEntry++
	entry.ID = m.nextEntry
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockPlaylistRepo) RemoveVideo(playlistID, videoID uint64) error {
	for id, entry := range m.entries {
		if entry.PlaylistID == playlistID && entry.VideoID == videoID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *mockPlaylistRepo) MaxPosition(playlistID uint64) (int, error) {
	var max uint64
	for _, entry := range m.entries {
		if entry.PlaylistID == playlistID && entry.Position > max {
			max = entry.Position
		}
	}
	return int(max), nil
}

func (m *mockPlaylistRepo) ListVideos(playlistID uint64) ([]model.PlaylistVideo, error) {
	var result []model.PlaylistVideo
	for _, entry := range m.entries {
		if entry.PlaylistID != playlistID {
			continue
		}
		video, ok := m.videos.videos[entry.VideoID]
		if !ok || !video.IsPublished {
			continue
		}
		withVideo := *entry
		withVideo.Video = m.videos.withOwner(*video)
		result = append(result, withVideo)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockPlaylistRepo) CountVideos(playlistIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	for _, id := range playlistIDs {
		for _, entry := range m.entries {
			if entry.PlaylistID != id {
				continue
			}
			if video, ok := m.videos.videos[entry.VideoID]; ok && video.IsPublished {
				result[id]++
			}
		}
	}
	return result, nil
}

func (m *mockPlaylistRepo) RemoveVideoEverywhere(videoID uint64) error {
	for id, entry := range m.entries {
		if entry.VideoID == videoID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *mockPlaylistRepo) WithTx(tx *gorm.DB) repository.PlaylistRepository { return m }

// ---------- watch history ----------

type mockHistoryRepo struct {
	entries map[uint64]*model.WatchHistory
	videos  *mockVideoRepo
	nextID  uint64
}

func newMockHistoryRepo(videos *mockVideoRepo) *mockHistoryRepo {
	return &mockHistoryRepo{entries: make(map[uint64]*model.WatchHistory), videos: videos}
}

func (m *mockHistoryRepo) Create(entry *model.WatchHistory) error {
	m.nextID++
	entry.ID = m.nextID
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockHistoryRepo) DeleteForDate(userID, videoID uint64, localDate string) error {
	for id, entry := range m.entries {
		if entry.WatchedByID == userID && entry.VideoID == videoID && entry.LocalDate == localDate {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *mockHistoryRepo) DistinctDates(userID uint64, offset, limit int) ([]string, error) {
	seen := make(map[string]bool)
	var dates []string
	for _, entry := range m.entries {
		if entry.WatchedByID == userID && !seen[entry.LocalDate] {
			seen[entry.LocalDate] = true
			dates = append(dates, entry.LocalDate)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if offset >= len(dates) {
		return nil, nil
	}
	dates = dates[offset:]
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func (m *mockHistoryRepo) CountDistinctDates(userID uint64) (int64, error) {
	seen := make(map[string]bool)
	for _, entry := range m.entries {
		if entry.WatchedByID == userID {
			seen[entry.LocalDate] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *mockHistoryRepo) ListByDates(userID uint64, dates []string) ([]model.WatchHistory, error) {
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}
	var result []model.WatchHistory
	for _, entry := range m.entries {
		if entry.WatchedByID != userID || !wanted[entry.LocalDate] {
			continue
		}
		video, ok := m.videos.videos[entry.VideoID]
		if !ok || !video.IsPublished {
			continue
		}
		withVideo := *entry
		withVideo.Video = m.videos.withOwner(*video)
		result = append(result, withVideo)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockHistoryRepo) ClearForUser(userID uint64) error {
	for id, entry := range m.entries {
		if entry.WatchedByID == userID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *mockHistoryRepo) DeleteForVideo(videoID uint64) error {
	for id, entry := range m.entries {
		if entry.VideoID == videoID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *mockHistoryRepo) WithTx(tx *gorm.DB) repository.HistoryRepository { return m }

// ---------- OTP ----------

type mockOtpRepo struct {
	codes    map[string][2]string // email -> {code, purpose}
	requests map[string]int64
}

func newMockOtpRepo() *mockOtpRepo {
	return &mockOtpRepo{codes: make(map[string][2]string), requests: make(map[string]int64)}
}

func (m *mockOtpRepo) SaveCode(_ context.Context, email, code, purpose string) error {
	m.codes[email] = [2]string{code, purpose}
	return nil
}

func (m *mockOtpRepo) GetCode(_ context.Context, email string) (string, string, error) {
	stored, ok := m.codes[email]
	if !ok {
		return "", "", nil
	}
	return stored[0], stored[1], nil
}

func (m *mockOtpRepo) DeleteCode(_ context.Context, email string) error {
	delete(m.codes, email)
	return nil
}

func (m *mockOtpRepo) IncrRequestCount(_ context.Context, email string) (int64, int64, error) {
	m.requests[email]++
	return m.requests[email], 5, nil
}

// ---------- storage / email ----------

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(_ context.Context, objectName, _ string, _ string) (string, error) {
	url := "https://cdn.test/" + objectName
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) ProbeDuration(_ string) (uint64, error) { return 42, nil }

func (f *fakeStorage) Delete(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakeEmailSender struct {
	sent []string
}

func (f *fakeEmailSender) Send(to, subject, _ string) error {
	f.sent = append(f.sent, fmt.Sprintf("%s|%s", to, subject))
	return nil
}

// ---------- unit of work ----------

// mockUnitOfWork 直接把同一组mock repo交给回调，没有真事务可回滚
type mockUnitOfWork struct {
	repos *data.TransactionalRepositories
}

func newMockUnitOfWork(
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	tweetRepo repository.TweetRepository,
	playlistRepo repository.PlaylistRepository,
	historyRepo repository.HistoryRepository,
) *mockUnitOfWork {
	return &mockUnitOfWork{repos: &data.TransactionalRepositories{
		VideoRepo:    videoRepo,
		CommentRepo:  commentRepo,
		LikeRepo:     likeRepo,
		TweetRepo:    tweetRepo,
		PlaylistRepo: playlistRepo,
		HistoryRepo:  historyRepo,
	}}
}

func (m *mockUnitOfWork) Execute(fn func(repos *data.TransactionalRepositories) error) error {
	return fn(m.repos)
}

// ---------- fixture ----------

// testEnv 一套接好线的service和底下的mock仓库
type testEnv struct {
	userRepo     *mockUserRepo
	videoRepo    *mockVideoRepo
	commentRepo  *mockCommentRepo
	likeRepo     *mockLikeRepo
	subRepo      *mockSubscriptionRepo
	tweetRepo    *mockTweetRepo
	playlistRepo *mockPlaylistRepo
	historyRepo  *mockHistoryRepo
	otpRepo      *mockOtpRepo
	store        *fakeStorage
	sender       *fakeEmailSender

	resolver RelationResolver
	uow      data.UnitOfWork
}

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	videos := newMockVideoRepo(users)
	comments := newMockCommentRepo(users)
	likes := newMockLikeRepo()
	subs := newMockSubscriptionRepo(users)
	tweets := newMockTweetRepo(users)
	playlists := newMockPlaylistRepo(videos)
	history := newMockHistoryRepo(videos)

	env := &testEnv{
		userRepo:     users,
		videoRepo:    videos,
		commentRepo:  comments,
		likeRepo:     likes,
		subRepo:      subs,
		tweetRepo:    tweets,
		playlistRepo: playlists,
		historyRepo:  history,
		otpRepo:      newMockOtpRepo(),
		store:        &fakeStorage{},
		sender:       &fakeEmailSender{},
	}
	env.resolver = NewRelationResolver(likes, subs, comments)
	env.uow = newMockUnitOfWork(videos, comments, likes, tweets, playlists, history)
	return env
}

func (e *testEnv) addUser(username string) *model.User {
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Password: "hashed",
	}
	_ = e.userRepo.Create(user)
	return user
}

func (e *testEnv) addVideo(ownerID uint64, title string, published bool) *model.Video {
	video := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		VideoURL:    "https://cdn.test/videos/v.mp4",
		IsPublished: published,
	}
	_ = e.videoRepo.Create(video)
	return video
}

func viewerOf(user *model.User) model.Viewer {
	return model.Viewer{ID: user.ID, Authenticated: true}
}

func defaultParams() pagination.Params {
	return pagination.Params{Page: 1, Limit: 10, SortBy: "created_at", SortType: pagination.SortDesc}
}
