package service

import (
	"errors"

	"VidTube/internal/apperror"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"

	"gorm.io/gorm"
)

// 订阅服务：和点赞一样是presence开关，唯一索引兜底并发
type SubscriptionService interface {
	// ToggleSubscription 不能订阅自己。订上返回新建的订阅记录，取消返回nil
	ToggleSubscription(viewer model.Viewer, channelID uint64) (*dto.SubscriptionResponse, error)
	// ListSubscribers 某频道的订阅者
	ListSubscribers(viewer model.Viewer, channelID uint64, p pagination.Params) (*dto.Page[dto.OwnerInfo], error)
	// ListSubscribedChannels 某用户订阅的频道
	ListSubscribedChannels(viewer model.Viewer, subscriberID uint64, p pagination.Params) (*dto.Page[dto.OwnerInfo], error)
	// SubscriptionStatus 观察者是否订阅了某频道，匿名恒为false不报错
	SubscriptionStatus(viewer model.Viewer, channelID uint64) (bool, error)
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	resolver RelationResolver
}

func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	resolver RelationResolver,
) SubscriptionService {
	return &subscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		resolver: resolver,
	}
}

func (s *subscriptionService) ToggleSubscription(viewer model.Viewer, channelID uint64) (*dto.SubscriptionResponse, error) {
	if viewer.Is(channelID) {
		return nil, apperror.InvalidArgument("不能订阅自己的频道")
	}
	if _, err := s.userRepo.FindByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("频道")
		}
		return nil, err
	}

	existing, err := s.subRepo.Find(viewer.ID, channelID)
	if err == nil {
		if err := s.subRepo.DeleteByID(existing.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := &model.Subscription{
		SubscriberID: viewer.ID,
		ChannelID:    channelID,
	}
	if err := s.subRepo.Create(sub); err != nil {
		// 并发下撞唯一索引，按"已订阅"收场，把落库的那条查回来
		if isDuplicateKey(err) {
			if winner, findErr := s.subRepo.Find(viewer.ID, channelID); findErr == nil {
				return dto.ToSubscriptionResponse(winner), nil
			}
			return dto.ToSubscriptionResponse(sub), nil
		}
		return nil, err
	}
	return dto.ToSubscriptionResponse(sub), nil
}

func (s *subscriptionService) ListSubscribers(viewer model.Viewer, channelID uint64, p pagination.Params) (*dto.Page[dto.OwnerInfo], error) {
	if _, err := s.userRepo.FindByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("频道")
		}
		return nil, err
	}
	users, total, err := s.subRepo.ListSubscribers(channelID, p)
	if err != nil {
		return nil, err
	}
	return s.toPage(viewer, users, total, p)
}

func (s *subscriptionService) ListSubscribedChannels(viewer model.Viewer, subscriberID uint64, p pagination.Params) (*dto.Page[dto.OwnerInfo], error) {
	if _, err := s.userRepo.FindByID(subscriberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("用户")
		}
		return nil, err
	}
	users, total, err := s.subRepo.ListSubscribed(subscriberID, p)
	if err != nil {
		return nil, err
	}
	return s.toPage(viewer, users, total, p)
}

func (s *subscriptionService) SubscriptionStatus(viewer model.Viewer, channelID uint64) (bool, error) {
	if _, err := s.userRepo.FindByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.NotFound("频道")
		}
		return false, err
	}
	if !viewer.Authenticated {
		return false, nil
	}
	_, err := s.subRepo.Find(viewer.ID, channelID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// 列表里的每个用户都带上观察者视角的订阅关系
func (s *subscriptionService) toPage(viewer model.Viewer, users []model.User, total int64, p pagination.Params) (*dto.Page[dto.OwnerInfo], error) {
	channelIDs := make([]uint64, 0, len(users))
	for _, u := range users {
		channelIDs = append(channelIDs, u.ID)
	}
	rel, err := s.resolver.ForChannels(viewer, channelIDs)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OwnerInfo, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, dto.ToOwnerInfo(u, rel.SubscriberCounts[u.ID], rel.SubscribedSet[u.ID]))
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}
