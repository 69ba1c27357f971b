package data

import (
	"VidTube/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 定义了我们事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行。
	// 它会为这个函数提供能在事务中工作的 Repositories。
	Execute(func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository。
// 级联删除(视频/评论/动态)会同时动好几张表，必须在同一个事务里。
type TransactionalRepositories struct {
	VideoRepo    repository.VideoRepository
	CommentRepo  repository.CommentRepository
	LikeRepo     repository.LikeRepository
	TweetRepo    repository.TweetRepository
	PlaylistRepo repository.PlaylistRepository
	HistoryRepo  repository.HistoryRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db           *gorm.DB
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	tweetRepo    repository.TweetRepository
	playlistRepo repository.PlaylistRepository
	historyRepo  repository.HistoryRepository
}

// NewUnitOfWork 创建一个新的、基于GORM的“工作单元”。
// 注意，它接收的是原始的、非事务的 repositories。
func NewUnitOfWork(
	db *gorm.DB,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	tweetRepo repository.TweetRepository,
	playlistRepo repository.PlaylistRepository,
	historyRepo repository.HistoryRepository,
) UnitOfWork {
	return &gormUnitOfWork{
		db:           db,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		tweetRepo:    tweetRepo,
		playlistRepo: playlistRepo,
		historyRepo:  historyRepo,
	}
}

// 契约：fn func(repos *TransactionalRepositories) error
// 只能接收长这样的函数，并为其创建事务；将符合契约的Repositories作为参数，“注入”到业务逻辑函数中
func (u *gormUnitOfWork) Execute(fn func(repos *TransactionalRepositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了特定事务的Repo副本
		transactionalRepos := &TransactionalRepositories{
			VideoRepo:    u.videoRepo.WithTx(tx),
			CommentRepo:  u.commentRepo.WithTx(tx),
			LikeRepo:     u.likeRepo.WithTx(tx),
			TweetRepo:    u.tweetRepo.WithTx(tx),
			PlaylistRepo: u.playlistRepo.WithTx(tx),
			HistoryRepo:  u.historyRepo.WithTx(tx),
		}
		// 回调最初调用者托付的业务逻辑，其返回值决定事务的提交或回滚
		return fn(transactionalRepos)
	})
}
