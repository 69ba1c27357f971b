package service

import (
	"VidTube/internal/model"
	"VidTube/internal/repository"
)

// VideoRelationSet 一批视频在某个观察者眼中的聚合关系。
// map里查不到的key一律按0/false处理。
type VideoRelationSet struct {
	LikeCounts       map[uint64]int64
	LikedSet         map[uint64]bool
	SubscriberCounts map[uint64]int64
	SubscribedSet    map[uint64]bool
}

// ChannelRelationSet 一批频道在某个观察者眼中的订阅关系
type ChannelRelationSet struct {
	SubscriberCounts map[uint64]int64
	SubscribedSet    map[uint64]bool
}

// CommentRelationSet 一批评论在某个观察者眼中的聚合关系
type CommentRelationSet struct {
	LikeCounts       map[uint64]int64
	ReplyCounts      map[uint64]int64
	LikedSet         map[uint64]bool
	SubscriberCounts map[uint64]int64
	SubscribedSet    map[uint64]bool
}

// TweetRelationSet 一批动态在某个观察者眼中的聚合关系
type TweetRelationSet struct {
	LikeCounts       map[uint64]int64
	CommentCounts    map[uint64]int64
	LikedSet         map[uint64]bool
	SubscriberCounts map[uint64]int64
	SubscribedSet    map[uint64]bool
}

// RelationResolver 把"点赞数/是否点赞/订阅数/是否订阅"这类与观察者有关的数据
// 用固定次数的批量查询取出来，列表长度不影响查询条数。
// 匿名观察者跳过所有liked/subscribed查询，直接得到空集。
type RelationResolver interface {
	ForVideos(viewer model.Viewer, videos []model.Video) (*VideoRelationSet, error)
	ForChannels(viewer model.Viewer, channelIDs []uint64) (*ChannelRelationSet, error)
	ForComments(viewer model.Viewer, comments []model.Comment) (*CommentRelationSet, error)
	ForTweets(viewer model.Viewer, tweets []model.Tweet) (*TweetRelationSet, error)
}

type relationResolver struct {
	likeRepo    repository.LikeRepository
	subRepo     repository.SubscriptionRepository
	commentRepo repository.CommentRepository
}

func NewRelationResolver(likeRepo repository.LikeRepository, subRepo repository.SubscriptionRepository, commentRepo repository.CommentRepository) RelationResolver {
	return &relationResolver{
		likeRepo:    likeRepo,
		subRepo:     subRepo,
		commentRepo: commentRepo,
	}
}

// 去重，保持首次出现的顺序
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

func (r *relationResolver) ForVideos(viewer model.Viewer, videos []model.Video) (*VideoRelationSet, error) {
	videoIDs := make([]uint64, 0, len(videos))
	ownerIDs := make([]uint64, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	ownerIDs = uniqueIDs(ownerIDs)

	likeCounts, err := r.likeRepo.CountForVideos(videoIDs)
	if err != nil {
		return nil, err
	}
	subscriberCounts, err := r.subRepo.CountForChannels(ownerIDs)
	if err != nil {
		return nil, err
	}

	result := &VideoRelationSet{
		LikeCounts:       likeCounts,
		LikedSet:         map[uint64]bool{},
		SubscriberCounts: subscriberCounts,
		SubscribedSet:    map[uint64]bool{},
	}
	if !viewer.Authenticated {
		return result, nil
	}
	if result.LikedSet, err = r.likeRepo.LikedVideoSet(viewer.ID, videoIDs); err != nil {
		return nil, err
	}
	if result.SubscribedSet, err = r.subRepo.SubscribedSet(viewer.ID, ownerIDs); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *relationResolver) ForChannels(viewer model.Viewer, channelIDs []uint64) (*ChannelRelationSet, error) {
	channelIDs = uniqueIDs(channelIDs)

	subscriberCounts, err := r.subRepo.CountForChannels(channelIDs)
	if err != nil {
		return nil, err
	}
	result := &ChannelRelationSet{
		SubscriberCounts: subscriberCounts,
		SubscribedSet:    map[uint64]bool{},
	}
	if !viewer.Authenticated {
		return result, nil
	}
	if result.SubscribedSet, err = r.subRepo.SubscribedSet(viewer.ID, channelIDs); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *relationResolver) ForComments(viewer model.Viewer, comments []model.Comment) (*CommentRelationSet, error) {
	commentIDs := make([]uint64, 0, len(comments))
	ownerIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		ownerIDs = append(ownerIDs, c.OwnerID)
	}
	ownerIDs = uniqueIDs(ownerIDs)

	likeCounts, err := r.likeRepo.CountForComments(commentIDs)
	if err != nil {
		return nil, err
	}
	replyCounts, err := r.commentRepo.CountReplies(commentIDs)
	if err != nil {
		return nil, err
	}
	subscriberCounts, err := r.subRepo.CountForChannels(ownerIDs)
	if err != nil {
		return nil, err
	}

	result := &CommentRelationSet{
		LikeCounts:       likeCounts,
		ReplyCounts:      replyCounts,
		LikedSet:         map[uint64]bool{},
		SubscriberCounts: subscriberCounts,
		SubscribedSet:    map[uint64]bool{},
	}
	if !viewer.Authenticated {
		return result, nil
	}
	if result.LikedSet, err = r.likeRepo.LikedCommentSet(viewer.ID, commentIDs); err != nil {
		return nil, err
	}
	if result.SubscribedSet, err = r.subRepo.SubscribedSet(viewer.ID, ownerIDs); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *relationResolver) ForTweets(viewer model.Viewer, tweets []model.Tweet) (*TweetRelationSet, error) {
	tweetIDs := make([]uint64, 0, len(tweets))
	ownerIDs := make([]uint64, 0, len(tweets))
	for _, t := range tweets {
		tweetIDs = append(tweetIDs, t.ID)
		ownerIDs = append(ownerIDs, t.OwnerID)
	}
	ownerIDs = uniqueIDs(ownerIDs)

	likeCounts, err := r.likeRepo.CountForTweets(tweetIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := r.commentRepo.CountForTweets(tweetIDs)
	if err != nil {
		return nil, err
	}
	subscriberCounts, err := r.subRepo.CountForChannels(ownerIDs)
	if err != nil {
		return nil, err
	}

	result := &TweetRelationSet{
		LikeCounts:       likeCounts,
		CommentCounts:    commentCounts,
		LikedSet:         map[uint64]bool{},
		SubscriberCounts: subscriberCounts,
		SubscribedSet:    map[uint64]bool{},
	}
	if !viewer.Authenticated {
		return result, nil
	}
	if result.LikedSet, err = r.likeRepo.LikedTweetSet(viewer.ID, tweetIDs); err != nil {
		return nil, err
	}
	if result.SubscribedSet, err = r.subRepo.SubscribedSet(viewer.ID, ownerIDs); err != nil {
		return nil, err
	}
	return result, nil
}
