package service

import (
	"errors"

	"VidTube/internal/apperror"
	"VidTube/internal/data"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"

	"gorm.io/gorm"
)

// 评论服务：视频和动态共用一套评论，回复只有一层，
// 对回复的回复会被拍平挂到同一个线程根上
type CommentService interface {
	AddVideoComment(viewer model.Viewer, videoID uint64, content string) (*dto.CommentResponse, error)
	AddTweetComment(viewer model.Viewer, tweetID uint64, content string) (*dto.CommentResponse, error)
	AddReply(viewer model.Viewer, commentID uint64, content string) (*dto.ReplyResponse, error)
	UpdateComment(viewer model.Viewer, commentID uint64, content string) (*dto.CommentResponse, error)
	// DeleteComment 评论主人或所在视频/动态的主人都可以删，
	// 顶层评论被删时它的直接回复和这些回复收到的赞一并清掉
	DeleteComment(viewer model.Viewer, commentID uint64) error

	ListVideoComments(viewer model.Viewer, videoID uint64, p pagination.Params) (*dto.Page[*dto.CommentResponse], error)
	ListTweetComments(viewer model.Viewer, tweetID uint64, p pagination.Params) (*dto.Page[*dto.CommentResponse], error)
	ListReplies(viewer model.Viewer, commentID uint64, p pagination.Params) (*dto.Page[*dto.ReplyResponse], error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	tweetRepo   repository.TweetRepository
	uow         data.UnitOfWork
	resolver    RelationResolver
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	uow data.UnitOfWork,
	resolver RelationResolver,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		tweetRepo:   tweetRepo,
		uow:         uow,
		resolver:    resolver,
	}
}

// 目标视频必须对评论者可见，未发布视频只有主人能评论
func (s *commentService) visibleVideo(viewer model.Viewer, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("视频")
		}
		return nil, err
	}
	if !video.IsPublished && !viewer.Is(video.OwnerID) {
		return nil, apperror.NotFound("视频")
	}
	return video, nil
}

func (s *commentService) AddVideoComment(viewer model.Viewer, videoID uint64, content string) (*dto.CommentResponse, error) {
	if content == "" {
		return nil, apperror.InvalidArgument("评论内容不能为空")
	}
	video, err := s.visibleVideo(viewer, videoID)
	if err != nil {
		return nil, err
	}
	comment := &model.Comment{
		OwnerID: viewer.ID,
		Content: content,
		VideoID: &video.ID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.loadCommentResponse(viewer, comment.ID)
}

func (s *commentService) AddTweetComment(viewer model.Viewer, tweetID uint64, content string) (*dto.CommentResponse, error) {
	if content == "" {
		return nil, apperror.InvalidArgument("评论内容不能为空")
	}
	tweet, err := s.tweetRepo.FindByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("动态")
		}
		return nil, err
	}
	comment := &model.Comment{
		OwnerID: viewer.ID,
		Content: content,
		TweetID: &tweet.ID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.loadCommentResponse(viewer, comment.ID)
}

// 回复评论：回复的目标可以是顶层评论也可以是另一条回复。
// 回复另一条回复时，新评论挂到同一个线程根下，ReplyingTo指向被回复的那条。
func (s *commentService) AddReply(viewer model.Viewer, commentID uint64, content string) (*dto.ReplyResponse, error) {
	if content == "" {
		return nil, apperror.InvalidArgument("评论内容不能为空")
	}
	target, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("评论")
		}
		return nil, err
	}

	rootID := target.ID
	if target.ParentID != nil {
		rootID = *target.ParentID
	}
	replyingToID := target.ID

	reply := &model.Comment{
		OwnerID:      viewer.ID,
		Content:      content,
		VideoID:      target.VideoID,
		TweetID:      target.TweetID,
		ParentID:     &rootID,
		ReplyingToID: &replyingToID,
	}
	if err := s.commentRepo.Create(reply); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.FindByID(reply.ID)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationsFor(viewer, []model.Comment{*created})
	if err != nil {
		return nil, err
	}
	return dto.ToReplyResponse(created, rel[created.ID]), nil
}

func (s *commentService) UpdateComment(viewer model.Viewer, commentID uint64, content string) (*dto.CommentResponse, error) {
	if content == "" {
		return nil, apperror.InvalidArgument("评论内容不能为空")
	}
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("评论")
		}
		return nil, err
	}
	// 编辑只属于评论主人，视频主人也不行
	if !viewer.Is(comment.OwnerID) {
		return nil, apperror.Forbidden("只有评论主人可以编辑")
	}
	comment.Content = content
	comment.IsEdited = true
	if err := s.commentRepo.Save(comment); err != nil {
		return nil, err
	}
	return s.loadCommentResponse(viewer, commentID)
}

func (s *commentService) DeleteComment(viewer model.Viewer, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("评论")
		}
		return err
	}

	allowed := viewer.Is(comment.OwnerID)
	if !allowed {
		// 视频/动态的主人可以清理自己地盘上的评论
		ownerID, err := s.targetOwnerID(comment)
		if err != nil {
			return err
		}
		allowed = viewer.Is(ownerID)
	}
	if !allowed {
		return apperror.Forbidden("没有权限删除这条评论")
	}

	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		replyIDs, err := repos.CommentRepo.ReplyIDs(comment.ID)
		if err != nil {
			return err
		}
		toDelete := append(replyIDs, comment.ID)
		if err := repos.LikeRepo.DeleteForComments(toDelete); err != nil {
			return err
		}
		return repos.CommentRepo.DeleteByIDs(toDelete)
	})
}

func (s *commentService) ListVideoComments(viewer model.Viewer, videoID uint64, p pagination.Params) (*dto.Page[*dto.CommentResponse], error) {
	if _, err := s.visibleVideo(viewer, videoID); err != nil {
		return nil, err
	}
	comments, total, err := s.commentRepo.ListForVideo(videoID, p)
	if err != nil {
		return nil, err
	}
	items, err := s.toCommentResponses(viewer, comments)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}

func (s *commentService) ListTweetComments(viewer model.Viewer, tweetID uint64, p pagination.Params) (*dto.Page[*dto.CommentResponse], error) {
	if _, err := s.tweetRepo.FindByID(tweetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("动态")
		}
		return nil, err
	}
	comments, total, err := s.commentRepo.ListForTweet(tweetID, p)
	if err != nil {
		return nil, err
	}
	items, err := s.toCommentResponses(viewer, comments)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}

func (s *commentService) ListReplies(viewer model.Viewer, commentID uint64, p pagination.Params) (*dto.Page[*dto.ReplyResponse], error) {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("评论")
		}
		return nil, err
	}
	replies, total, err := s.commentRepo.ListReplies(commentID, p)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationsFor(viewer, replies)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ReplyResponse, 0, len(replies))
	for i := range replies {
		c := &replies[i]
		items = append(items, dto.ToReplyResponse(c, rel[c.ID]))
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}

// 评论挂载目标(视频或动态)的主人ID
func (s *commentService) targetOwnerID(comment *model.Comment) (uint64, error) {
	if comment.VideoID != nil {
		video, err := s.videoRepo.FindByID(*comment.VideoID)
		if err != nil {
			return 0, err
		}
		return video.OwnerID, nil
	}
	if comment.TweetID != nil {
		tweet, err := s.tweetRepo.FindByID(*comment.TweetID)
		if err != nil {
			return 0, err
		}
		return tweet.OwnerID, nil
	}
	return 0, nil
}

// relationsFor 把批量聚合结果拆成每条评论自己的CommentRelations
func (s *commentService) relationsFor(viewer model.Viewer, comments []model.Comment) (map[uint64]dto.CommentRelations, error) {
	set, err := s.resolver.ForComments(viewer, comments)
	if err != nil {
		return nil, err
	}

	// 同一页评论必然挂在同一个目标上，目标主人查一次就够
	var targetOwnerID uint64
	if len(comments) > 0 && viewer.Authenticated {
		if targetOwnerID, err = s.targetOwnerID(&comments[0]); err != nil {
			return nil, err
		}
	}

	result := make(map[uint64]dto.CommentRelations, len(comments))
	for i := range comments {
		c := &comments[i]
		result[c.ID] = dto.CommentRelations{
			LikesCount:       set.LikeCounts[c.ID],
			RepliesCount:     set.ReplyCounts[c.ID],
			IsLiked:          set.LikedSet[c.ID],
			IsCommentOwner:   viewer.Is(c.OwnerID),
			IsTargetOwner:    viewer.Is(targetOwnerID),
			SubscribersCount: set.SubscriberCounts[c.OwnerID],
			IsSubscribed:     set.SubscribedSet[c.OwnerID],
		}
	}
	return result, nil
}

func (s *commentService) toCommentResponses(viewer model.Viewer, comments []model.Comment) ([]*dto.CommentResponse, error) {
	rel, err := s.relationsFor(viewer, comments)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		items = append(items, dto.ToCommentResponse(c, rel[c.ID]))
	}
	return items, nil
}

func (s *commentService) loadCommentResponse(viewer model.Viewer, commentID uint64) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationsFor(viewer, []model.Comment{*comment})
	if err != nil {
		return nil, err
	}
	return dto.ToCommentResponse(comment, rel[comment.ID]), nil
}
