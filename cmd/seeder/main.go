// cmd/seeder/main.go

package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"VidTube/internal/model"

	"github.com/go-faker/faker/v4"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	_ = godotenv.Load()

	// --- 1. 连接数据库 ---
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vidtube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	// 注意：这将删除所有数据！
	fmt.Println("🧹 正在清理旧数据...")
	db.Migrator().DropTable(
		&model.WatchHistory{}, &model.PlaylistVideo{}, &model.Playlist{},
		&model.Like{}, &model.Comment{}, &model.Subscription{},
		&model.Tweet{}, &model.Video{}, &model.Social{}, &model.User{},
	)
	fmt.Println("✅ 旧表删除成功!")

	db.AutoMigrate(
		&model.User{}, &model.Social{},
		&model.Video{}, &model.Comment{}, &model.Like{},
		&model.Subscription{}, &model.Playlist{}, &model.PlaylistVideo{},
		&model.Tweet{}, &model.WatchHistory{},
	)
	fmt.Println("✅ 数据库迁移成功!")

	rand.Seed(time.Now().UnixNano())

	// --- 3. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	userCount := 50
	// 所有测试用户共用一个默认密码 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	for i := 0; i < userCount; i++ {
		user := model.User{
			Username: fmt.Sprintf("%s%d", faker.Username(), i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			FullName: faker.Name(),
			Password: string(hashedPassword),
			Verified: true,
		}
		db.Create(&user)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", userCount)

	// --- 4. 创建视频 ---
	fmt.Println("🎬 正在创建视频...")
	videoCount := 200
	for i := 0; i < videoCount; i++ {
		video := model.Video{
			// 从已创建的用户中随机选一个当主人
			OwnerID:      uint64(rand.Intn(userCount) + 1),
			Title:        faker.Sentence(),
			Description:  faker.Paragraph(),
			Tags:         []string{faker.Word(), faker.Word()},
			VideoURL:     "https://test.com/video.mp4",
			ThumbnailURL: "https://test.com/thumbnail.jpg",
			Duration:     uint64(rand.Intn(600) + 30),
			Views:        uint64(rand.Intn(10000)),
			IsPublished:  rand.Intn(10) > 1, // 少量未发布的，测可见性
		}
		db.Create(&video)
	}
	fmt.Printf("✅ 成功创建 %d 个视频!\n", videoCount)

	// --- 5. 创建随机点赞 ---
	fmt.Println("👍 正在创建随机点赞...")
	likeCount := 1000
	for i := 0; i < likeCount; i++ {
		videoID := uint64(rand.Intn(videoCount) + 1)
		like := model.Like{
			LikedByID: uint64(rand.Intn(userCount) + 1),
			VideoID:   &videoID,
		}
		// OnConflict DoNothing：撞到唯一键就当这次点赞没发生
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liked_by_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).Create(&like)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机点赞!\n", likeCount)

	// --- 6. 创建随机订阅 ---
	fmt.Println("🔔 正在创建随机订阅...")
	subCount := 300
	for i := 0; i < subCount; i++ {
		subscriberID := uint64(rand.Intn(userCount) + 1)
		channelID := uint64(rand.Intn(userCount) + 1)
		if subscriberID == channelID {
			continue // 不能订阅自己
		}
		sub := model.Subscription{
			SubscriberID: subscriberID,
			ChannelID:    channelID,
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).Create(&sub)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机订阅!\n", subCount)

	// --- 7. 创建随机评论 ---
	fmt.Println("💬 正在创建随机评论...")
	commentCount := 500
	for i := 0; i < commentCount; i++ {
		videoID := uint64(rand.Intn(videoCount) + 1)
		comment := model.Comment{
			OwnerID: uint64(rand.Intn(userCount) + 1),
			Content: faker.Sentence(),
			VideoID: &videoID,
		}
		db.Create(&comment)
	}
	fmt.Printf("✅ 成功创建 %d 条随机评论!\n", commentCount)

	// --- 8. 创建随机动态 ---
	fmt.Println("📝 正在创建随机动态...")
	tweetCount := 100
	for i := 0; i < tweetCount; i++ {
		tweet := model.Tweet{
			OwnerID:     uint64(rand.Intn(userCount) + 1),
			TextContent: faker.Sentence(),
		}
		db.Create(&tweet)
	}
	fmt.Printf("✅ 成功创建 %d 条随机动态!\n", tweetCount)

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}
