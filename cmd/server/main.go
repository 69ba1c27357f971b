package main

import (
	"log"
	"os"

	"VidTube/internal/data"
	"VidTube/internal/handler"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/internal/router"
	"VidTube/internal/service"
	"VidTube/pkg/email"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"
	"VidTube/pkg/redis"
	"VidTube/pkg/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		log.Fatalf(".env文件加载失败")
	}
	// 初始化logger
	logger.InitLogger()

	// 初始化Redis
	redisClient, err := redis.InitRedis()
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	logger.Log.Info("RabbitMQ连接成功")

	// 初始化MinIO对象存储
	store, err := storage.InitMinio()
	if err != nil {
		logger.Log.Fatalf("无法连接到MinIO: %v", err)
	}
	logger.Log.Info("MinIO连接成功")

	// 邮件发送器，验证码走SMTP
	emailSender := email.NewSMTPSender()

	// 数据源名称，用户名:密码@网络协议(地址:端口号)/数据库名?charset=字符集&parseTime=是否解析时间&loc=时区
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vidtube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	// AutoMigrate只增不删：没有表就建表，没有列就加列，不会动已有数据
	err = db.AutoMigrate(
		&model.User{}, &model.Social{},
		&model.Video{}, &model.Comment{}, &model.Like{},
		&model.Subscription{}, &model.Playlist{}, &model.PlaylistVideo{},
		&model.Tweet{}, &model.WatchHistory{},
	)
	if err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	otpRepo := repository.NewOtpRepository(redisClient)

	uow := data.NewUnitOfWork(db, videoRepo, commentRepo, likeRepo, tweetRepo, playlistRepo, historyRepo)
	resolver := service.NewRelationResolver(likeRepo, subRepo, commentRepo)

	otpService := service.NewOtpService(otpRepo, emailSender)
	userService := service.NewUserService(userRepo, subRepo, resolver, otpService, store)
	videoService := service.NewVideoService(videoRepo, uow, resolver, store, rabbitMQConn)
	commentService := service.NewCommentService(commentRepo, videoRepo, tweetRepo, uow, resolver)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, resolver)
	subService := service.NewSubscriptionService(subRepo, userRepo, resolver)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo, resolver)
	tweetService := service.NewTweetService(tweetRepo, userRepo, uow, resolver, store)
	historyService := service.NewHistoryService(historyRepo, videoRepo, resolver)
	dashboardService := service.NewDashboardService(videoRepo, likeRepo, subRepo, resolver)

	r := router.SetupRouter(router.Handlers{
		User:         handler.NewUserHandler(userService),
		Otp:          handler.NewOtpHandler(otpService),
		Video:        handler.NewVideoHandler(videoService),
		Comment:      handler.NewCommentHandler(commentService),
		Like:         handler.NewLikeHandler(likeService),
		Subscription: handler.NewSubscriptionHandler(subService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		History:      handler.NewHistoryHandler(historyService),
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Log.Printf("服务器将在: %s端口启动", port)
	if err := r.Run(":" + port); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
